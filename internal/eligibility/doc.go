// Package eligibility decides whether a learner qualifies for a program, how
// well a learner fits a job posting, and whether a new application is
// admissible under the per-institution cap.
//
// Everything here is pure and synchronous. Missing data never produces an
// error: absent fields count as empty or zero, which fails closed for scoring
// and fails open for programs without requirements. Callers that want strict
// input checking use the Validate functions before evaluating.
package eligibility
