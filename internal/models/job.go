// internal/models/job.go
package models

// Job is a posting published by a company.
type Job struct {
	ID           string         `json:"id" yaml:"id"`
	CompanyID    string         `json:"companyId,omitempty" yaml:"companyId,omitempty"`
	Title        string         `json:"title" yaml:"title"`
	Requirements JobRequirement `json:"requirements" yaml:"requirements"`
}

type JobRequirement struct {
	Degree     *string  `json:"degree,omitempty" yaml:"degree,omitempty"`
	Skills     []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	Experience string   `json:"experience,omitempty" yaml:"experience,omitempty"`
	Location   *string  `json:"location,omitempty" yaml:"location,omitempty"`
}
