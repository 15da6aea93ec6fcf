package createapplicationrecord

type Input struct {
	StudentID     string `json:"studentId"`
	InstitutionID string `json:"institutionId"`
	CourseID      string `json:"courseId"`
}

// Output reports either the stored application or why it was refused. A
// refusal is a normal outcome, not a job failure.
type Output struct {
	Created           bool   `json:"created"`
	Reason            string `json:"reason"`
	ApplicationID     string `json:"applicationId,omitempty"`
	ApplicationStatus string `json:"applicationStatus,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"` // ISO 8601
	Counted           int    `json:"counted"`
}
