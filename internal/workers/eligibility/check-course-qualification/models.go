package checkcoursequalification

import "careerguide-workers/internal/models"

// Input names the learner and program by id, or carries them inline. Inline
// records win over ids.
type Input struct {
	LearnerID string                 `json:"learnerId"`
	ProgramID string                 `json:"programId"`
	Learner   *models.LearnerProfile `json:"learner,omitempty"`
	Program   *models.Program        `json:"program,omitempty"`
}

type Output struct {
	LearnerID       string   `json:"learnerId"`
	ProgramID       string   `json:"programId"`
	InstitutionID   string   `json:"institutionId,omitempty"`
	Qualified       bool     `json:"qualified"`
	Variant         string   `json:"variant"`
	Average         float64  `json:"average"`
	MinimumAverage  float64  `json:"minimumAverage,omitempty"`
	MissingSubjects []string `json:"missingSubjects"`
}
