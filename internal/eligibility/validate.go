package eligibility

import (
	"fmt"
	"strings"

	"careerguide-workers/internal/models"
)

// ValidationError lists every problem found in one input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// ValidateLearner is the strict alternative to the permissive defaults.
func ValidateLearner(l models.LearnerProfile) error {
	var problems []string
	if strings.TrimSpace(l.ID) == "" {
		problems = append(problems, "learner id is required")
	}
	for subject, grade := range l.Grades {
		if strings.TrimSpace(subject) == "" {
			problems = append(problems, "grade recorded for blank subject")
		}
		if !KnownGrade(grade) {
			problems = append(problems, fmt.Sprintf("unknown grade %q for %s", grade, subject))
		}
	}
	if l.ExperienceYears != nil && *l.ExperienceYears < 0 {
		problems = append(problems, "experienceYears must not be negative")
	}
	return asError(problems)
}

func ValidateProgram(req models.ProgramRequirement) error {
	var problems []string
	for i, s := range req.RequiredSubjects {
		if strings.TrimSpace(s) == "" {
			problems = append(problems, fmt.Sprintf("requiredSubjects[%d] is blank", i))
		}
	}
	if m := req.MinimumAverageGrade; m != nil && (*m < 0 || *m > 5) {
		problems = append(problems, "minimumAverageGrade must be within 0-5")
	}
	return asError(problems)
}

func ValidateJob(req models.JobRequirement) error {
	var problems []string
	for i, s := range req.Skills {
		if strings.TrimSpace(s) == "" {
			problems = append(problems, fmt.Sprintf("skills[%d] is blank", i))
		}
	}
	if req.Experience != "" && firstInteger.FindString(req.Experience) == "" {
		problems = append(problems, fmt.Sprintf("experience %q has no number of years", req.Experience))
	}
	return asError(problems)
}

func asError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
