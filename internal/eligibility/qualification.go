package eligibility

import (
	"strings"

	"careerguide-workers/internal/models"
)

type Variant string

const (
	VariantNoRequirements    Variant = "no_requirements"
	VariantGrades            Variant = "grades"
	VariantCompletedSubjects Variant = "completed_subjects"
)

type QualificationResult struct {
	Qualified       bool     `json:"qualified"`
	Variant         Variant  `json:"variant"`
	Average         float64  `json:"average,omitempty"`
	MinimumAverage  float64  `json:"minimumAverage,omitempty"`
	MissingSubjects []string `json:"missingSubjects,omitempty"`
}

// IsQualified reports whether the learner meets the program's entry
// requirements.
func IsQualified(req models.ProgramRequirement, learner models.LearnerProfile) bool {
	return CheckQualification(req, learner).Qualified
}

// CheckQualification evaluates the requirement and explains the outcome.
//
// A learner with a graded transcript is judged on grades: every required
// subject needs a grade and the mean over exactly the required subjects must
// reach the minimum average. Otherwise the pass/fail transcript must contain
// every required subject. Subjects compare by exact text after trimming.
func CheckQualification(req models.ProgramRequirement, learner models.LearnerProfile) QualificationResult {
	required := requiredSubjects(req.RequiredSubjects)
	if len(required) == 0 {
		return QualificationResult{Qualified: true, Variant: VariantNoRequirements}
	}

	if learner.HasGrades() {
		return checkGrades(required, minimumAverage(req), learner.Grades)
	}
	return checkCompleted(required, learner.CompletedSubjects)
}

func checkGrades(required []string, minimum float64, grades map[string]string) QualificationResult {
	bySubject := make(map[string]string, len(grades))
	for subject, grade := range grades {
		bySubject[strings.TrimSpace(subject)] = grade
	}

	res := QualificationResult{Variant: VariantGrades, MinimumAverage: minimum}
	total := 0.0
	for _, subject := range required {
		grade, ok := bySubject[subject]
		if !ok {
			res.MissingSubjects = append(res.MissingSubjects, subject)
			continue
		}
		total += GradePoint(grade)
	}
	if len(res.MissingSubjects) > 0 {
		return res
	}

	res.Average = total / float64(len(required))
	res.Qualified = res.Average >= minimum
	return res
}

func checkCompleted(required []string, completed []string) QualificationResult {
	have := make(map[string]bool, len(completed))
	for _, s := range completed {
		have[strings.TrimSpace(s)] = true
	}

	res := QualificationResult{Variant: VariantCompletedSubjects}
	for _, subject := range required {
		if !have[subject] {
			res.MissingSubjects = append(res.MissingSubjects, subject)
		}
	}
	res.Qualified = len(res.MissingSubjects) == 0
	return res
}

// requiredSubjects trims and dedupes the list; order is irrelevant to the
// decision but kept for stable reporting.
func requiredSubjects(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func minimumAverage(req models.ProgramRequirement) float64 {
	if req.MinimumAverageGrade == nil {
		return DefaultMinimumAverage
	}
	return *req.MinimumAverageGrade
}
