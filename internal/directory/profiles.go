package directory

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"careerguide-workers/internal/models"
)

// Cached entity kinds, as accepted by Invalidate.
const (
	EntityLearner = "learner"
	EntityProgram = "program"
)

const learnerColumns = `id, completed_subjects, grades, skills, course, experience_years, preferred_location`

// Learner returns a learner profile, served from cache when possible.
func (s *Store) Learner(ctx context.Context, id string) (*models.LearnerProfile, error) {
	var cached models.LearnerProfile
	if s.cacheGet(ctx, EntityLearner, id, &cached) {
		return &cached, nil
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE id = $1`, id)

	var (
		l                        models.LearnerProfile
		completed, grades, skill []byte
		course, location         sql.NullString
		years                    sql.NullInt64
	)
	err := row.Scan(&l.ID, &completed, &grades, &skill, &course, &years, &location)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(EntityLearner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select learner %s: %w", id, err)
	}

	if err := decodeJSON(completed, &l.CompletedSubjects); err != nil {
		return nil, fmt.Errorf("learner %s completed_subjects: %w", id, err)
	}
	if err := decodeJSON(grades, &l.Grades); err != nil {
		return nil, fmt.Errorf("learner %s grades: %w", id, err)
	}
	if err := decodeJSON(skill, &l.Skills); err != nil {
		return nil, fmt.Errorf("learner %s skills: %w", id, err)
	}
	l.Course = nullString(course)
	l.PreferredLocation = nullString(location)
	if years.Valid {
		y := int(years.Int64)
		l.ExperienceYears = &y
	}

	s.cacheSet(ctx, EntityLearner, id, l)
	return &l, nil
}

const programColumns = `id, institution_id, name, faculty, required_subjects, minimum_average_grade`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgram(row rowScanner) (models.Program, error) {
	var (
		p        models.Program
		faculty  sql.NullString
		subjects []byte
		minimum  sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.InstitutionID, &p.Name, &faculty, &subjects, &minimum); err != nil {
		return p, err
	}
	p.Faculty = faculty.String
	if err := decodeJSON(subjects, &p.Requirements.RequiredSubjects); err != nil {
		return p, fmt.Errorf("program %s required_subjects: %w", p.ID, err)
	}
	if minimum.Valid {
		m := minimum.Float64
		p.Requirements.MinimumAverageGrade = &m
	}
	return p, nil
}

// Program returns one program with its entry requirements.
func (s *Store) Program(ctx context.Context, id string) (*models.Program, error) {
	var cached models.Program
	if s.cacheGet(ctx, EntityProgram, id, &cached) {
		return &cached, nil
	}

	p, err := scanProgram(s.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = $1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(EntityProgram, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select program %s: %w", id, err)
	}

	s.cacheSet(ctx, EntityProgram, id, p)
	return &p, nil
}

// Programs lists the programs of one institution, or of every institution
// when institutionID is empty.
func (s *Store) Programs(ctx context.Context, institutionID string) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+programColumns+`
		FROM programs
		WHERE ($1 = '' OR institution_id = $1)
		ORDER BY institution_id, name`, institutionID)
	if err != nil {
		return nil, fmt.Errorf("select programs: %w", err)
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

const jobColumns = `id, company_id, title, degree, skills, experience, location`

func scanJob(row rowScanner) (models.Job, error) {
	var (
		j                models.Job
		company          sql.NullString
		degree, location sql.NullString
		experience       sql.NullString
		skills           []byte
	)
	if err := row.Scan(&j.ID, &company, &j.Title, &degree, &skills, &experience, &location); err != nil {
		return j, err
	}
	j.CompanyID = company.String
	j.Requirements.Degree = nullString(degree)
	j.Requirements.Location = nullString(location)
	j.Requirements.Experience = experience.String
	if err := decodeJSON(skills, &j.Requirements.Skills); err != nil {
		return j, fmt.Errorf("job %s skills: %w", j.ID, err)
	}
	return j, nil
}

// Job returns one job posting. Jobs are not cached; postings change often.
func (s *Store) Job(ctx context.Context, id string) (*models.Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select job %s: %w", id, err)
	}
	return &j, nil
}

// OpenJobs returns the newest open postings, at most limit of them.
func (s *Store) OpenJobs(ctx context.Context, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE status = 'open'
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select open jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
