package main

import (
	"fmt"

	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"

	"github.com/spf13/cobra"
)

type qualifyResult struct {
	ProgramID     string `json:"programId"`
	InstitutionID string `json:"institutionId"`
	Name          string `json:"name"`
	eligibility.QualificationResult
}

func newQualifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qualify",
		Short: "Check the learner against program entry requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixtureFrom(cmd)
			if err != nil {
				return err
			}
			programID, _ := cmd.Flags().GetString("program")
			onlyQualified, _ := cmd.Flags().GetBool("qualified-only")

			programs := f.Programs
			if programID != "" {
				p, ok := f.program(programID)
				if !ok {
					return fmt.Errorf("program %q not in fixture", programID)
				}
				programs = []models.Program{p}
			}

			results := []qualifyResult{}
			for _, p := range programs {
				r := eligibility.CheckQualification(p.Requirements, f.Learner)
				if onlyQualified && !r.Qualified {
					continue
				}
				results = append(results, qualifyResult{
					ProgramID:           p.ID,
					InstitutionID:       p.InstitutionID,
					Name:                p.Name,
					QualificationResult: r,
				})
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().String("program", "", "evaluate a single program by id")
	cmd.Flags().Bool("qualified-only", false, "list only programs the learner qualifies for")
	return cmd
}

type scoreResult struct {
	JobID string `json:"jobId"`
	Title string `json:"title"`
	eligibility.MatchBreakdown
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score the learner against job postings",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixtureFrom(cmd)
			if err != nil {
				return err
			}
			jobID, _ := cmd.Flags().GetString("job")

			jobs := f.Jobs
			if jobID != "" {
				j, ok := f.job(jobID)
				if !ok {
					return fmt.Errorf("job %q not in fixture", jobID)
				}
				jobs = []models.Job{j}
			}

			results := make([]scoreResult, 0, len(jobs))
			for _, j := range jobs {
				results = append(results, scoreResult{
					JobID:          j.ID,
					Title:          j.Title,
					MatchBreakdown: eligibility.Breakdown(f.Learner, j.Requirements),
				})
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().String("job", "", "score a single job by id")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the jobs that score above the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixtureFrom(cmd)
			if err != nil {
				return err
			}
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			limit, _ := cmd.Flags().GetInt("limit")
			if threshold < 0 || threshold > eligibility.MaxScore {
				return fmt.Errorf("threshold %.1f outside 0-100", threshold)
			}

			recs := eligibility.RecommendAbove(f.Learner, f.Jobs, threshold)
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().Float64("threshold", eligibility.RecommendThreshold, "exclusive minimum score")
	cmd.Flags().Int("limit", 0, "maximum recommendations (0 for all)")
	return cmd
}

type canApplyResult struct {
	InstitutionID string `json:"institutionId"`
	CourseID      string `json:"courseId"`
	Cap           int    `json:"cap"`
	eligibility.Decision
}

func newCanApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "can-apply",
		Short: "Decide whether the learner may apply to a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixtureFrom(cmd)
			if err != nil {
				return err
			}
			institutionID, _ := cmd.Flags().GetString("institution")
			courseID, _ := cmd.Flags().GetString("course")

			policy := f.policy()
			if cmd.Flags().Changed("cap") {
				policy.InstitutionCap, _ = cmd.Flags().GetInt("cap")
			}
			if cmd.Flags().Changed("count-withdrawn") {
				policy.CountWithdrawn, _ = cmd.Flags().GetBool("count-withdrawn")
			}

			return printJSON(cmd.OutOrStdout(), canApplyResult{
				InstitutionID: institutionID,
				CourseID:      courseID,
				Cap:           policy.InstitutionCap,
				Decision:      policy.CanApply(f.Applications, institutionID, courseID),
			})
		},
	}
	cmd.Flags().String("institution", "", "institution id")
	cmd.Flags().String("course", "", "course id")
	cmd.Flags().Int("cap", eligibility.DefaultInstitutionCap, "override the per-institution cap")
	cmd.Flags().Bool("count-withdrawn", false, "count withdrawn applications against the cap")
	_ = cmd.MarkFlagRequired("institution")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}
