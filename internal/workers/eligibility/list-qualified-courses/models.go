package listqualifiedcourses

import "careerguide-workers/internal/models"

// Input selects the learner and the candidate programs. When Programs is
// empty the programs of InstitutionID are loaded, or every program when
// InstitutionID is empty too.
type Input struct {
	LearnerID     string                 `json:"learnerId"`
	Learner       *models.LearnerProfile `json:"learner,omitempty"`
	InstitutionID string                 `json:"institutionId"`
	Programs      []models.Program       `json:"programs,omitempty"`
}

type QualifiedProgram struct {
	ProgramID     string  `json:"programId"`
	InstitutionID string  `json:"institutionId"`
	Name          string  `json:"name"`
	Faculty       string  `json:"faculty,omitempty"`
	Variant       string  `json:"variant"`
	Average       float64 `json:"average,omitempty"`
}

type Output struct {
	LearnerID         string             `json:"learnerId"`
	QualifiedPrograms []QualifiedProgram `json:"qualifiedPrograms"`
	TotalPrograms     int                `json:"totalPrograms"`
	QualifiedCount    int                `json:"qualifiedCount"`
}
