package eligibility

import (
	"errors"
	"fmt"

	"careerguide-workers/internal/models"
)

var (
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrRoleNotAllowed       = errors.New("role may not perform this transition")
)

// reviewerTransitions are the decisions an institution, company or admin can
// take. rejected, admitted and withdrawn are terminal.
var reviewerTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusAdmitted, models.StatusRejected},
}

var studentTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusPending:  {models.StatusWithdrawn},
	models.StatusApproved: {models.StatusWithdrawn},
}

// CanTransition returns nil when role may move an application from one status
// to another.
func CanTransition(role models.Role, from, to models.ApplicationStatus) error {
	var table map[models.ApplicationStatus][]models.ApplicationStatus
	switch {
	case role == models.RoleStudent:
		table = studentTransitions
	case role.IsReviewer():
		table = reviewerTransitions
	default:
		return fmt.Errorf("%w: %q", ErrRoleNotAllowed, role)
	}

	for _, s := range table[from] {
		if s == to {
			return nil
		}
	}
	if allowedByAnyRole(from, to) {
		return fmt.Errorf("%w: %s cannot move %s -> %s", ErrRoleNotAllowed, role, from, to)
	}
	return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
}

func allowedByAnyRole(from, to models.ApplicationStatus) bool {
	for _, table := range []map[models.ApplicationStatus][]models.ApplicationStatus{reviewerTransitions, studentTransitions} {
		for _, s := range table[from] {
			if s == to {
				return true
			}
		}
	}
	return false
}
