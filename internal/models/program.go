// internal/models/program.go
package models

// Program is a course offered by an institution together with its entry
// requirements.
type Program struct {
	ID            string             `json:"id" yaml:"id"`
	InstitutionID string             `json:"institutionId" yaml:"institutionId"`
	Name          string             `json:"name" yaml:"name"`
	Faculty       string             `json:"faculty,omitempty" yaml:"faculty,omitempty"`
	Requirements  ProgramRequirement `json:"requirements" yaml:"requirements"`
}

type ProgramRequirement struct {
	RequiredSubjects []string `json:"requiredSubjects,omitempty" yaml:"requiredSubjects,omitempty"`
	// MinimumAverageGrade is on the A=5 ... F=0 scale; nil means the default.
	MinimumAverageGrade *float64 `json:"minimumAverageGrade,omitempty" yaml:"minimumAverageGrade,omitempty"`
}
