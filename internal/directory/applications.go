package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"careerguide-workers/internal/common/database"
	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"
)

const applicationColumns = `id, student_id, institution_id, course_id, status, created_at, updated_at`

var (
	// ErrNotOwner is returned when a student or institution acts on an
	// application that is not theirs.
	ErrNotOwner = fmt.Errorf("%w: application belongs to another account", eligibility.ErrRoleNotAllowed)
	// ErrCompanyNotReviewer: companies review job postings, not course
	// applications.
	ErrCompanyNotReviewer = fmt.Errorf("%w: companies do not review course applications", eligibility.ErrRoleNotAllowed)
	// ErrInstitutionMismatch is returned when a course is not offered by the
	// institution named in the request.
	ErrInstitutionMismatch = stderrors.New("course is offered by another institution")
)

func scanApplication(row rowScanner) (models.ApplicationRecord, error) {
	var (
		a                models.ApplicationRecord
		status           string
		created, updated time.Time
	)
	if err := row.Scan(&a.ID, &a.StudentID, &a.InstitutionID, &a.CourseID, &status, &created, &updated); err != nil {
		return a, err
	}
	a.Status = models.ApplicationStatus(status)
	a.CreatedAt = created.UTC().Format(time.RFC3339)
	a.UpdatedAt = updated.UTC().Format(time.RFC3339)
	return a, nil
}

func listApplications(ctx context.Context, q queryer, column, value string) ([]models.ApplicationRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE `+column+` = $1 ORDER BY created_at`, value)
	if err != nil {
		return nil, fmt.Errorf("select applications by %s: %w", column, err)
	}
	defer rows.Close()

	apps := []models.ApplicationRecord{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// StudentApplications returns every application a learner has made.
func (s *Store) StudentApplications(ctx context.Context, studentID string) ([]models.ApplicationRecord, error) {
	return listApplications(ctx, s.db, "student_id", studentID)
}

// InstitutionApplications returns every application received by an
// institution.
func (s *Store) InstitutionApplications(ctx context.Context, institutionID string) ([]models.ApplicationRecord, error) {
	return listApplications(ctx, s.db, "institution_id", institutionID)
}

type NewApplication struct {
	StudentID     string
	InstitutionID string
	CourseID      string
}

// CreateResult carries the policy decision and, when allowed, the stored
// record.
type CreateResult struct {
	Decision eligibility.Decision
	Record   *models.ApplicationRecord
}

// CreateApplication stores a pending application if policy allows it.
//
// The course must be offered by req.InstitutionID. The learner's applications
// are re-read under a transaction-scoped advisory lock on (student,
// institution), so concurrent submissions for the same pair are serialised
// and cannot both pass the cap.
func (s *Store) CreateApplication(ctx context.Context, policy eligibility.Policy, req NewApplication) (*CreateResult, error) {
	result := &CreateResult{}

	err := database.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		var offeredBy string
		err := tx.QueryRowContext(ctx, `SELECT institution_id FROM programs WHERE id = $1`, req.CourseID).Scan(&offeredBy)
		if stderrors.Is(err, sql.ErrNoRows) {
			return notFound(EntityProgram, req.CourseID)
		}
		if err != nil {
			return fmt.Errorf("select program %s: %w", req.CourseID, err)
		}
		if offeredBy != req.InstitutionID {
			return fmt.Errorf("%w: %s belongs to %s, not %s", ErrInstitutionMismatch, req.CourseID, offeredBy, req.InstitutionID)
		}

		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
			req.StudentID+"|"+req.InstitutionID); err != nil {
			return fmt.Errorf("lock applications: %w", err)
		}

		existing, err := listApplications(ctx, tx, "student_id", req.StudentID)
		if err != nil {
			return err
		}

		result.Decision = policy.CanApply(existing, req.InstitutionID, req.CourseID)
		if !result.Decision.Allowed {
			return nil
		}

		now := s.now().UTC()
		rec := models.ApplicationRecord{
			ID:            s.newID(),
			StudentID:     req.StudentID,
			InstitutionID: req.InstitutionID,
			CourseID:      req.CourseID,
			Status:        models.StatusPending,
			CreatedAt:     now.Format(time.RFC3339),
			UpdatedAt:     now.Format(time.RFC3339),
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO applications (id, student_id, institution_id, course_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			rec.ID, rec.StudentID, rec.InstitutionID, rec.CourseID, string(rec.Status), now); err != nil {
			return fmt.Errorf("%w: application: %v", ErrInsertFailed, err)
		}

		if err := writeAudit(ctx, tx, "application_created", rec.ID, rec.StudentID, map[string]interface{}{
			"institutionId": rec.InstitutionID,
			"courseId":      rec.CourseID,
		}, now); err != nil {
			return err
		}

		result.Record = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type Actor struct {
	ID   string
	Role models.Role
}

type StatusChange struct {
	Previous    models.ApplicationStatus
	Application models.ApplicationRecord
}

// UpdateStatus moves an application to a new status if the actor's role
// permits the transition. Students act only on their own applications,
// institutions only on applications they received. Companies never decide
// course applications; admins may act on any.
func (s *Store) UpdateStatus(ctx context.Context, applicationID string, actor Actor, to models.ApplicationStatus) (*StatusChange, error) {
	var change StatusChange

	err := database.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		rec, err := scanApplication(tx.QueryRowContext(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, applicationID))
		if stderrors.Is(err, sql.ErrNoRows) {
			return notFound("application", applicationID)
		}
		if err != nil {
			return fmt.Errorf("select application %s: %w", applicationID, err)
		}

		switch actor.Role {
		case models.RoleStudent:
			if actor.ID != rec.StudentID {
				return ErrNotOwner
			}
		case models.RoleInstitution:
			if actor.ID != rec.InstitutionID {
				return ErrNotOwner
			}
		case models.RoleCompany:
			return ErrCompanyNotReviewer
		}
		if err := eligibility.CanTransition(actor.Role, rec.Status, to); err != nil {
			return err
		}

		now := s.now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
			string(to), now, applicationID); err != nil {
			return fmt.Errorf("%w: application %s: %v", ErrUpdateFailed, applicationID, err)
		}

		if err := writeAudit(ctx, tx, "application_status_changed", applicationID, actor.ID, map[string]interface{}{
			"from": string(rec.Status),
			"to":   string(to),
			"role": string(actor.Role),
		}, now); err != nil {
			return err
		}

		change.Previous = rec.Status
		rec.Status = to
		rec.UpdatedAt = now.Format(time.RFC3339)
		change.Application = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func writeAudit(ctx context.Context, tx *sql.Tx, event, resourceID, actorID string, details map[string]interface{}, at time.Time) error {
	body, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, actor_id, details, created_at)
		VALUES ($1, 'application', $2, $3, $4, $5)`,
		event, resourceID, actorID, body, at); err != nil {
		return fmt.Errorf("%w: audit log: %v", ErrInsertFailed, err)
	}
	return nil
}
