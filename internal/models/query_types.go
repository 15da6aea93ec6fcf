// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeLearnerProfile          QueryType = "learner_profile"
	QueryTypeProgramDetails          QueryType = "program_details"
	QueryTypeInstitutionPrograms     QueryType = "institution_programs"
	QueryTypeStudentApplications     QueryType = "student_applications"
	QueryTypeInstitutionApplications QueryType = "institution_applications"
	QueryTypeOpenJobs                QueryType = "open_jobs"
)
