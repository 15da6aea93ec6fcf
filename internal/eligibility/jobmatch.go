package eligibility

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"careerguide-workers/internal/models"
)

const (
	CourseRelevanceWeight = 40.0
	SkillsWeight          = 30.0
	ExperienceWeight      = 20.0
	LocationWeight        = 10.0

	MaxScore = 100.0

	// RecommendThreshold is exclusive: a job must score above it.
	RecommendThreshold = 50.0
)

var firstInteger = regexp.MustCompile(`\d+`)

type MatchBreakdown struct {
	CourseRelevance float64 `json:"courseRelevance"`
	SkillsMatch     float64 `json:"skillsMatch"`
	ExperienceMatch float64 `json:"experienceMatch"`
	LocationMatch   float64 `json:"locationMatch"`
	MatchedSkills   int     `json:"matchedSkills"`
	MinimumYears    int     `json:"minimumYears"`
	Score           float64 `json:"score"`
}

type Recommendation struct {
	Job   models.Job     `json:"job"`
	Score float64        `json:"score"`
	Match MatchBreakdown `json:"match"`
}

// Score is the 0-100 fit between a learner and a job posting.
func Score(learner models.LearnerProfile, job models.JobRequirement) float64 {
	return Breakdown(learner, job).Score
}

// Breakdown computes the four independent sub-scores and their capped sum.
func Breakdown(learner models.LearnerProfile, job models.JobRequirement) MatchBreakdown {
	var b MatchBreakdown

	course := strings.ToLower(deref(learner.Course))
	degree := strings.ToLower(deref(job.Degree))
	if course != "" && degree != "" && strings.Contains(course, degree) {
		b.CourseRelevance = CourseRelevanceWeight
	}

	b.MatchedSkills, b.SkillsMatch = skillsScore(learner.Skills, job.Skills)

	b.MinimumYears = ParseMinimumExperience(job.Experience)
	if learner.ExperienceYears != nil && *learner.ExperienceYears >= b.MinimumYears {
		b.ExperienceMatch = ExperienceWeight
	}

	loc := deref(learner.PreferredLocation)
	jobLoc := deref(job.Location)
	if loc != "" && jobLoc != "" && strings.EqualFold(loc, jobLoc) {
		b.LocationMatch = LocationWeight
	}

	sum := b.CourseRelevance + b.SkillsMatch + b.ExperienceMatch + b.LocationMatch
	b.Score = math.Max(0, math.Min(sum, MaxScore))
	return b
}

// skillsScore divides by the number of job skills, not learner skills, so the
// ratio can exceed 1 when several learner skills hit the same requirement.
// Only the final score is capped.
func skillsScore(learnerSkills, jobSkills []string) (int, float64) {
	have := normalizeSet(learnerSkills)
	want := normalizeSet(jobSkills)
	if len(have) == 0 || len(want) == 0 {
		return 0, 0
	}

	matched := 0
	for _, s := range have {
		for _, req := range want {
			if Matches(s, req) {
				matched++
				break
			}
		}
	}
	return matched, float64(matched) / float64(len(want)) * SkillsWeight
}

// ParseMinimumExperience reads the first integer in free text such as
// "2-4 years". Text without digits means no minimum; a number too large for
// an int means no learner can meet it.
func ParseMinimumExperience(text string) int {
	m := firstInteger.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

// Recommend keeps jobs scoring above RecommendThreshold, best first. Ties keep
// input order.
func Recommend(learner models.LearnerProfile, jobs []models.Job) []Recommendation {
	return RecommendAbove(learner, jobs, RecommendThreshold)
}

func RecommendAbove(learner models.LearnerProfile, jobs []models.Job, threshold float64) []Recommendation {
	out := make([]Recommendation, 0, len(jobs))
	for _, job := range jobs {
		b := Breakdown(learner, job.Requirements)
		if b.Score <= threshold {
			continue
		}
		out = append(out, Recommendation{Job: job, Score: b.Score, Match: b})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
