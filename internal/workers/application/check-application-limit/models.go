package checkapplicationlimit

import "careerguide-workers/internal/models"

// Input identifies the prospective application. When Applications is nil
// the learner's applications are read from the directory.
type Input struct {
	StudentID     string                     `json:"studentId"`
	InstitutionID string                     `json:"institutionId"`
	CourseID      string                     `json:"courseId"`
	Applications  []models.ApplicationRecord `json:"applications,omitempty"`
}

type Output struct {
	StudentID     string `json:"studentId"`
	InstitutionID string `json:"institutionId"`
	CourseID      string `json:"courseId"`
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason"`
	Counted       int    `json:"counted"`
	Cap           int    `json:"cap"`
}
