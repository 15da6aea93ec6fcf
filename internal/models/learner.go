// internal/models/learner.go
package models

// LearnerProfile is the transcript and career profile of a student.
// Grades and CompletedSubjects are alternative transcript shapes: a graded
// transcript fills Grades, a pass/fail transcript fills CompletedSubjects.
type LearnerProfile struct {
	ID                string            `json:"id" yaml:"id"`
	CompletedSubjects []string          `json:"completedSubjects,omitempty" yaml:"completedSubjects,omitempty"`
	Grades            map[string]string `json:"grades,omitempty" yaml:"grades,omitempty"`
	Skills            []string          `json:"skills,omitempty" yaml:"skills,omitempty"`
	Course            *string           `json:"course,omitempty" yaml:"course,omitempty"`
	ExperienceYears   *int              `json:"experienceYears,omitempty" yaml:"experienceYears,omitempty"`
	PreferredLocation *string           `json:"preferredLocation,omitempty" yaml:"preferredLocation,omitempty"`
}

// HasGrades reports whether the profile carries a graded transcript.
func (l LearnerProfile) HasGrades() bool {
	return len(l.Grades) > 0
}
