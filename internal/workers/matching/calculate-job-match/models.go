package calculatejobmatch

import (
	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"
)

type Input struct {
	LearnerID string                 `json:"learnerId"`
	JobID     string                 `json:"jobId"`
	Learner   *models.LearnerProfile `json:"learner,omitempty"`
	Job       *models.Job            `json:"job,omitempty"`
}

type Output struct {
	LearnerID   string                     `json:"learnerId"`
	JobID       string                     `json:"jobId"`
	Score       float64                    `json:"score"`
	Breakdown   eligibility.MatchBreakdown `json:"breakdown"`
	Recommended bool                       `json:"recommended"`
}
