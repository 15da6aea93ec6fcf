// internal/models/application.go
package models

import "fmt"

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusAdmitted  ApplicationStatus = "admitted"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusAdmitted, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// ApplicationRecord is a learner's application to one course of one
// institution.
type ApplicationRecord struct {
	ID            string            `json:"id" yaml:"id"`
	StudentID     string            `json:"studentId" yaml:"studentId"`
	InstitutionID string            `json:"institutionId" yaml:"institutionId"`
	CourseID      string            `json:"courseId" yaml:"courseId"`
	Status        ApplicationStatus `json:"status" yaml:"status"`
	CreatedAt     string            `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt     string            `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}
