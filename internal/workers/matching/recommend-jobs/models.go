package recommendjobs

import (
	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"
)

const (
	SourceInput     = "input"
	SourceSearch    = "search"
	SourceDirectory = "directory"
)

// Input names the learner and where candidate jobs come from. With no Source,
// inline Jobs are used when present, then the search index when configured,
// then the directory.
type Input struct {
	LearnerID string                 `json:"learnerId"`
	Learner   *models.LearnerProfile `json:"learner,omitempty"`
	Jobs      []models.Job           `json:"jobs,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Query     string                 `json:"query,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
}

type Recommendation struct {
	JobID     string                     `json:"jobId"`
	Title     string                     `json:"title"`
	CompanyID string                     `json:"companyId,omitempty"`
	Score     float64                    `json:"score"`
	Match     eligibility.MatchBreakdown `json:"match"`
}

type Output struct {
	LearnerID       string           `json:"learnerId"`
	Recommendations []Recommendation `json:"recommendations"`
	Evaluated       int              `json:"evaluated"`
	Source          string           `json:"source"`
}
