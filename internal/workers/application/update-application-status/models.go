package updateapplicationstatus

type Input struct {
	ApplicationID string `json:"applicationId"`
	ActorID       string `json:"actorId"`
	ActorRole     string `json:"actorRole"`
	Status        string `json:"status"`
}

type Output struct {
	ApplicationID  string `json:"applicationId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
	StudentID      string `json:"studentId"`
	InstitutionID  string `json:"institutionId"`
	CourseID       string `json:"courseId"`
	UpdatedAt      string `json:"updatedAt"`
}
