package eligibility

import "careerguide-workers/internal/models"

type Reason string

const (
	ReasonOK                       Reason = "OK"
	ReasonAlreadyAppliedThisCourse Reason = "ALREADY_APPLIED_THIS_COURSE"
	ReasonInstitutionLimitReached  Reason = "INSTITUTION_LIMIT_REACHED"
)

// DefaultInstitutionCap is the number of live applications a learner may hold
// at one institution.
const DefaultInstitutionCap = 2

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
	// Counted is the number of records that counted against the cap.
	Counted int `json:"counted"`
}

// Policy holds the tunables of the application cap. The zero value is not
// useful; start from DefaultPolicy.
type Policy struct {
	InstitutionCap int
	// CountWithdrawn makes withdrawn applications keep their slot and block
	// re-applying to the same course.
	CountWithdrawn bool
}

func DefaultPolicy() Policy {
	return Policy{InstitutionCap: DefaultInstitutionCap}
}

// CanApply evaluates DefaultPolicy.
func CanApply(existing []models.ApplicationRecord, institutionID, courseID string) Decision {
	return DefaultPolicy().CanApply(existing, institutionID, courseID)
}

// CanApply decides on a new application given a snapshot of the learner's
// existing applications. A duplicate course wins over the institution cap.
func (p Policy) CanApply(existing []models.ApplicationRecord, institutionID, courseID string) Decision {
	limit := p.InstitutionCap
	if limit <= 0 {
		limit = DefaultInstitutionCap
	}

	count := 0
	duplicate := false
	for _, app := range existing {
		if app.Status == models.StatusWithdrawn && !p.CountWithdrawn {
			continue
		}
		if app.CourseID == courseID {
			duplicate = true
		}
		if app.InstitutionID == institutionID {
			count++
		}
	}

	switch {
	case duplicate:
		return Decision{Reason: ReasonAlreadyAppliedThisCourse, Counted: count}
	case count >= limit:
		return Decision{Reason: ReasonInstitutionLimitReached, Counted: count}
	}
	return Decision{Allowed: true, Reason: ReasonOK, Counted: count}
}
