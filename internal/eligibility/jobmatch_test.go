package eligibility

import (
	"math"
	"testing"

	"careerguide-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ==========================
// Sub-scores
// ==========================

func TestBreakdown_CourseRelevance(t *testing.T) {
	tests := []struct {
		name   string
		course *string
		degree *string
		want   float64
	}{
		{"degree inside course ignoring case", strPtr("BSc Computer Science"), strPtr("computer science"), 40},
		{"course inside degree does not count", strPtr("Science"), strPtr("Computer Science"), 0},
		{"missing course", nil, strPtr("Computer Science"), 0},
		{"missing degree", strPtr("BSc Computer Science"), nil, 0},
		{"blank degree", strPtr("BSc Computer Science"), strPtr("   "), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Breakdown(models.LearnerProfile{Course: tt.course}, models.JobRequirement{Degree: tt.degree})
			assert.Equal(t, tt.want, b.CourseRelevance)
		})
	}
}

func TestBreakdown_Skills(t *testing.T) {
	tests := []struct {
		name      string
		learner   []string
		job       []string
		want      float64
		wantCount int
	}{
		{"no overlap", []string{"JavaScript", "SQL"}, []string{"JS", "Python"}, 0, 0},
		{"half of job skills", []string{"Python"}, []string{"python", "Go"}, 15, 1},
		{"loose substring match", []string{"Java"}, []string{"JavaScript"}, 30, 1},
		{"ratio above one", []string{"Go", "Golang", "Google Cloud"}, []string{"Go"}, 90, 3},
		{"empty job skills guarded", []string{"Go"}, nil, 0, 0},
		{"empty learner skills", nil, []string{"Go"}, 0, 0},
		{"blank entries ignored", []string{"", "  "}, []string{"Go", ""}, 0, 0},
		{"duplicate learner skills counted once", []string{"SQL", "sql"}, []string{"SQL", "Excel"}, 15, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Breakdown(models.LearnerProfile{Skills: tt.learner}, models.JobRequirement{Skills: tt.job})
			assert.InDelta(t, tt.want, b.SkillsMatch, 1e-9)
			assert.Equal(t, tt.wantCount, b.MatchedSkills)
		})
	}
}

func TestBreakdown_Experience(t *testing.T) {
	job := models.JobRequirement{Experience: "2-4 years"}

	assert.Equal(t, 0.0, Breakdown(models.LearnerProfile{ExperienceYears: intPtr(1)}, job).ExperienceMatch)
	assert.Equal(t, 20.0, Breakdown(models.LearnerProfile{ExperienceYears: intPtr(3)}, job).ExperienceMatch)
	assert.Equal(t, 20.0, Breakdown(models.LearnerProfile{ExperienceYears: intPtr(2)}, job).ExperienceMatch)

	// Unrecorded experience never earns the points.
	assert.Equal(t, 0.0, Breakdown(models.LearnerProfile{}, models.JobRequirement{}).ExperienceMatch)
	assert.Equal(t, 20.0, Breakdown(models.LearnerProfile{ExperienceYears: intPtr(0)}, models.JobRequirement{Experience: "entry level"}).ExperienceMatch)
}

func TestParseMinimumExperience(t *testing.T) {
	tests := map[string]int{
		"2-4 years":                  2,
		"at least 5 years":           5,
		"10+":                        10,
		"none":                       0,
		"":                           0,
		"3 to 7 years, 2024":         3,
		"99999999999999999999 years": math.MaxInt,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseMinimumExperience(in), in)
	}
}

func TestBreakdown_OverflowingExperienceIsUnreachable(t *testing.T) {
	job := models.JobRequirement{Experience: "99999999999999999999 years"}

	b := Breakdown(models.LearnerProfile{ExperienceYears: intPtr(0)}, job)
	assert.Equal(t, 0.0, b.ExperienceMatch)

	b = Breakdown(models.LearnerProfile{ExperienceYears: intPtr(40)}, job)
	assert.Equal(t, 0.0, b.ExperienceMatch)
}

func TestBreakdown_Location(t *testing.T) {
	tests := []struct {
		name      string
		preferred *string
		location  *string
		want      float64
	}{
		{"equal ignoring case", strPtr("Maseru"), strPtr("maseru"), 10},
		{"different town", strPtr("Maseru"), strPtr("Leribe"), 0},
		{"substring is not equality", strPtr("Maseru"), strPtr("Maseru Central"), 0},
		{"both blank", strPtr(""), strPtr(""), 0},
		{"unset", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Breakdown(models.LearnerProfile{PreferredLocation: tt.preferred}, models.JobRequirement{Location: tt.location})
			assert.Equal(t, tt.want, b.LocationMatch)
		})
	}
}

// ==========================
// Total score
// ==========================

func TestScore_Bounds(t *testing.T) {
	full := models.LearnerProfile{
		Course:            strPtr("BSc Computer Science"),
		Skills:            []string{"Go", "Golang", "Google Cloud", "Docker"},
		ExperienceYears:   intPtr(10),
		PreferredLocation: strPtr("Maseru"),
	}
	job := models.JobRequirement{
		Degree:     strPtr("Computer Science"),
		Skills:     []string{"Go"},
		Experience: "1 year",
		Location:   strPtr("Maseru"),
	}

	b := Breakdown(full, job)
	assert.Greater(t, b.CourseRelevance+b.SkillsMatch+b.ExperienceMatch+b.LocationMatch, 100.0)
	assert.Equal(t, 100.0, b.Score)

	assert.Equal(t, 0.0, Score(models.LearnerProfile{}, models.JobRequirement{Experience: "3 years"}))

	for _, l := range []models.LearnerProfile{{}, full, {Skills: []string{"x"}}} {
		for _, j := range []models.JobRequirement{{}, job, {Skills: []string{"x", "y", "z"}}} {
			s := Score(l, j)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}

// ==========================
// Recommend
// ==========================

func TestRecommend_FiltersAndSorts(t *testing.T) {
	learner := models.LearnerProfile{
		Course:            strPtr("BSc Computer Science"),
		Skills:            []string{"Go", "SQL"},
		ExperienceYears:   intPtr(3),
		PreferredLocation: strPtr("Maseru"),
	}

	jobs := []models.Job{
		{ID: "sixty-five", Requirements: models.JobRequirement{
			Degree: strPtr("Computer Science"), Skills: []string{"Go", "Kubernetes"}, Experience: "5 years", Location: strPtr("Maseru"),
		}}, // 40 + 15 + 0 + 10 = 65
		{ID: "zero", Requirements: models.JobRequirement{
			Degree: strPtr("Law"), Skills: []string{"Litigation"}, Experience: "8 years", Location: strPtr("Leribe"),
		}},
		{ID: "ninety", Requirements: models.JobRequirement{
			Degree: strPtr("computer science"), Skills: []string{"Go", "SQL"}, Experience: "2-4 years",
		}}, // 40 + 30 + 20 = 90
		{ID: "seventy", Requirements: models.JobRequirement{
			Degree: strPtr("Computer Science"), Location: strPtr("Maseru"),
		}}, // 40 + 0 + 20 + 10 = 70
		{ID: "forty", Requirements: models.JobRequirement{
			Skills: []string{"Go", "SQL"}, Experience: "9 years", Location: strPtr("Maseru"),
		}}, // 0 + 30 + 0 + 10 = 40
	}

	recs := Recommend(learner, jobs)
	require.Len(t, recs, 3)
	assert.Equal(t, "ninety", recs[0].Job.ID)
	assert.Equal(t, 90.0, recs[0].Score)
	assert.Equal(t, "seventy", recs[1].Job.ID)
	assert.Equal(t, 70.0, recs[1].Score)
	assert.Equal(t, "sixty-five", recs[2].Job.ID)
	assert.Equal(t, 65.0, recs[2].Score)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
	for _, r := range recs {
		assert.Greater(t, r.Score, 50.0)
	}
}

func TestRecommend_ThresholdIsStrict(t *testing.T) {
	learner := models.LearnerProfile{Course: strPtr("Diploma in Accounting"), PreferredLocation: strPtr("Maseru")}
	jobs := []models.Job{{ID: "fifty", Requirements: models.JobRequirement{
		Degree: strPtr("accounting"), Experience: "2 years", Location: strPtr("Maseru"),
	}}}

	assert.Equal(t, 50.0, Score(learner, jobs[0].Requirements))
	assert.Empty(t, Recommend(learner, jobs))
	assert.Len(t, RecommendAbove(learner, jobs, 49), 1)
}

func TestRecommend_StableForTies(t *testing.T) {
	learner := models.LearnerProfile{Course: strPtr("BSc Nursing"), ExperienceYears: intPtr(1)}
	job := models.JobRequirement{Degree: strPtr("nursing"), Experience: "1 year"}
	jobs := []models.Job{{ID: "a", Requirements: job}, {ID: "b", Requirements: job}, {ID: "c", Requirements: job}}

	recs := Recommend(learner, jobs)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].Job.ID, recs[1].Job.ID, recs[2].Job.ID})
}

func TestRecommend_NoJobs(t *testing.T) {
	assert.Empty(t, Recommend(models.LearnerProfile{}, nil))
}
