package eligibility

import "strings"

// DefaultMinimumAverage is a "C average" on the A=5 ... F=0 scale.
const DefaultMinimumAverage = 3.0

var gradePoints = map[string]float64{
	"A": 5,
	"B": 4,
	"C": 3,
	"D": 2,
	"E": 1,
	"F": 0,
}

// GradePoint converts a letter grade into points. Unknown grades are worth 0.
func GradePoint(letter string) float64 {
	return gradePoints[strings.ToUpper(strings.TrimSpace(letter))]
}

// KnownGrade reports whether letter is one of A-F.
func KnownGrade(letter string) bool {
	_, ok := gradePoints[strings.ToUpper(strings.TrimSpace(letter))]
	return ok
}
