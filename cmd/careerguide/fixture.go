package main

import (
	"errors"
	"fmt"
	"os"

	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"

	"gopkg.in/yaml.v3"
)

// Fixture is one learner's world: the catalogue they are evaluated against
// and the applications they already hold.
type Fixture struct {
	Learner      models.LearnerProfile      `yaml:"learner"`
	Programs     []models.Program           `yaml:"programs"`
	Jobs         []models.Job               `yaml:"jobs"`
	Applications []models.ApplicationRecord `yaml:"applications"`
	Policy       *PolicySettings            `yaml:"policy,omitempty"`
}

type PolicySettings struct {
	InstitutionCap int  `yaml:"institutionCap"`
	CountWithdrawn bool `yaml:"countWithdrawn"`
}

// LoadFixture reads a YAML fixture. JSON is valid YAML and loads the same way.
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return nil, errors.New("no fixture file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Validate applies the engine's strict record checks to every record.
func (f *Fixture) Validate() error {
	if err := eligibility.ValidateLearner(f.Learner); err != nil {
		return fmt.Errorf("learner %s: %w", f.Learner.ID, err)
	}
	for _, p := range f.Programs {
		if err := eligibility.ValidateProgram(p.Requirements); err != nil {
			return fmt.Errorf("program %s: %w", p.ID, err)
		}
	}
	for _, j := range f.Jobs {
		if err := eligibility.ValidateJob(j.Requirements); err != nil {
			return fmt.Errorf("job %s: %w", j.ID, err)
		}
	}
	return nil
}

func (f *Fixture) policy() eligibility.Policy {
	p := eligibility.DefaultPolicy()
	if f.Policy != nil {
		if f.Policy.InstitutionCap > 0 {
			p.InstitutionCap = f.Policy.InstitutionCap
		}
		p.CountWithdrawn = f.Policy.CountWithdrawn
	}
	return p
}

func (f *Fixture) program(id string) (models.Program, bool) {
	for _, p := range f.Programs {
		if p.ID == id {
			return p, true
		}
	}
	return models.Program{}, false
}

func (f *Fixture) job(id string) (models.Job, bool) {
	for _, j := range f.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return models.Job{}, false
}
