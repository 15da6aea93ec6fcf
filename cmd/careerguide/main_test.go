package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/learner.yaml"

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.Bytes(), err
}

func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

// ==========================
// qualify
// ==========================

func TestQualify_AllPrograms(t *testing.T) {
	out, err := run(t, "qualify", "-f", fixturePath)
	require.NoError(t, err)

	var results []struct {
		ProgramID       string   `json:"programId"`
		Qualified       bool     `json:"qualified"`
		Variant         string   `json:"variant"`
		Average         float64  `json:"average"`
		MissingSubjects []string `json:"missingSubjects"`
	}
	decode(t, out, &results)
	require.Len(t, results, 3)

	assert.Equal(t, "p-cs", results[0].ProgramID)
	assert.True(t, results[0].Qualified)
	assert.Equal(t, "grades", results[0].Variant)
	assert.Equal(t, 4.0, results[0].Average)

	assert.False(t, results[1].Qualified)
	assert.ElementsMatch(t, []string{"Biology", "Chemistry"}, results[1].MissingSubjects)

	assert.True(t, results[2].Qualified)
	assert.Equal(t, "no_requirements", results[2].Variant)
}

func TestQualify_QualifiedOnly(t *testing.T) {
	out, err := run(t, "qualify", "-f", fixturePath, "--qualified-only")
	require.NoError(t, err)

	var results []map[string]interface{}
	decode(t, out, &results)
	assert.Len(t, results, 2)
}

func TestQualify_UnknownProgram(t *testing.T) {
	_, err := run(t, "qualify", "-f", fixturePath, "--program", "p-none")
	assert.Error(t, err)
}

// ==========================
// score / recommend
// ==========================

func TestScore_SingleJob(t *testing.T) {
	out, err := run(t, "score", "-f", fixturePath, "--job", "j-analyst")
	require.NoError(t, err)

	var results []struct {
		JobID           string  `json:"jobId"`
		Score           float64 `json:"score"`
		SkillsMatch     float64 `json:"skillsMatch"`
		ExperienceMatch float64 `json:"experienceMatch"`
		LocationMatch   float64 `json:"locationMatch"`
		CourseRelevance float64 `json:"courseRelevance"`
	}
	decode(t, out, &results)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "j-analyst", r.JobID)
	assert.Equal(t, 0.0, r.CourseRelevance)
	assert.Equal(t, 10.0, r.SkillsMatch)
	assert.Equal(t, 20.0, r.ExperienceMatch)
	assert.Equal(t, 10.0, r.LocationMatch)
	assert.Equal(t, 40.0, r.Score)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIDs []string
	}{
		{"default threshold", nil, []string{"j-backend"}},
		{"lower threshold", []string{"--threshold", "30"}, []string{"j-backend", "j-analyst"}},
		{"limit", []string{"--threshold", "30", "--limit", "1"}, []string{"j-backend"}},
		{"threshold is exclusive", []string{"--threshold", "100"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"recommend", "-f", fixturePath}, tt.args...)
			out, err := run(t, args...)
			require.NoError(t, err)

			var recs []struct {
				Job struct {
					ID string `json:"id"`
				} `json:"job"`
				Score float64 `json:"score"`
			}
			decode(t, out, &recs)

			ids := []string{}
			for _, r := range recs {
				ids = append(ids, r.Job.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRecommend_ThresholdOutOfRange(t *testing.T) {
	_, err := run(t, "recommend", "-f", fixturePath, "--threshold", "120")
	assert.Error(t, err)
}

// ==========================
// can-apply
// ==========================

func TestCanApply(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantAllowed bool
		wantReason  string
		wantCounted int
	}{
		{"withdrawn frees a slot", []string{"--institution", "nul", "--course", "p-cs"}, true, "OK", 1},
		{"counting withdrawn fills the cap", []string{"--institution", "nul", "--course", "p-cs", "--count-withdrawn"}, false, "INSTITUTION_LIMIT_REACHED", 2},
		{"duplicate course", []string{"--institution", "nul", "--course", "p-law"}, false, "ALREADY_APPLIED_THIS_COURSE", 1},
		{"cap override", []string{"--institution", "nul", "--course", "p-cs", "--cap", "1"}, false, "INSTITUTION_LIMIT_REACHED", 1},
		{"other institution", []string{"--institution", "limkokwing", "--course", "p-arts"}, true, "OK", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"can-apply", "-f", fixturePath}, tt.args...)
			out, err := run(t, args...)
			require.NoError(t, err)

			var res struct {
				Allowed bool   `json:"allowed"`
				Reason  string `json:"reason"`
				Counted int    `json:"counted"`
			}
			decode(t, out, &res)
			assert.Equal(t, tt.wantAllowed, res.Allowed)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, tt.wantCounted, res.Counted)
		})
	}
}

func TestCanApply_RequiresCourse(t *testing.T) {
	_, err := run(t, "can-apply", "-f", fixturePath, "--institution", "nul")
	assert.Error(t, err)
}

// ==========================
// Fixture loading
// ==========================

func TestFixture_JSONAndStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learner.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"learner": {"id": "l2", "grades": {"Mathematics": "Z"}},
		"programs": [{"id": "p1", "institutionId": "nul", "name": "Maths", "requirements": {"requiredSubjects": ["Mathematics"]}}]
	}`), 0o600))

	out, err := run(t, "qualify", "-f", path)
	require.NoError(t, err)
	var results []struct {
		Qualified bool    `json:"qualified"`
		Average   float64 `json:"average"`
	}
	decode(t, out, &results)
	require.Len(t, results, 1)
	assert.False(t, results[0].Qualified)

	_, err = run(t, "qualify", "-f", path, "--strict")
	assert.ErrorContains(t, err, `unknown grade "Z"`)
}

func TestFixture_Missing(t *testing.T) {
	_, err := run(t, "qualify")
	assert.Error(t, err)

	_, err = run(t, "qualify", "-f", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFixture_PolicySection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
learner: {id: l3}
policy:
  institutionCap: 1
applications:
  - {id: a1, studentId: l3, institutionId: nul, courseId: c1, status: approved}
`), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, 1, f.policy().InstitutionCap)

	out, err := run(t, "can-apply", "-f", path, "--institution", "nul", "--course", "c2")
	require.NoError(t, err)
	var res struct {
		Reason string `json:"reason"`
	}
	decode(t, out, &res)
	assert.Equal(t, "INSTITUTION_LIMIT_REACHED", res.Reason)
}

// ==========================
// registry
// ==========================

func TestRegistryList(t *testing.T) {
	out, err := run(t, "registry", "list")
	require.NoError(t, err)

	var acts []struct {
		TaskType  string `json:"taskType"`
		HasSchema bool   `json:"hasInputSchema"`
	}
	decode(t, out, &acts)
	assert.Len(t, acts, 10)

	out, err = run(t, "registry", "list", "--category", "matching")
	require.NoError(t, err)
	decode(t, out, &acts)
	require.Len(t, acts, 2)
	for _, a := range acts {
		assert.True(t, a.HasSchema, a.TaskType)
	}
}

func TestRegistryCheck(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "whole registry", args: nil},
		{
			name: "valid variables",
			args: []string{"--task", "check-application-limit", "--variables", `{"studentId":"s1","institutionId":"nul","courseId":"c1"}`},
		},
		{
			name:    "invalid variables",
			args:    []string{"--task", "check-application-limit", "--variables", `{"studentId":"s1"}`},
			wantErr: "INVALID_INPUT",
		},
		{
			name:    "unregistered task",
			args:    []string{"--task", "send-fax"},
			wantErr: "not registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"registry", "check"}, tt.args...)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var res struct {
				Valid bool `json:"valid"`
			}
			decode(t, out, &res)
			assert.True(t, res.Valid)
		})
	}
}

func TestRegistryCheck_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[{"id":"a","taskType":"a"},{"id":"b","taskType":"a"}]}`), 0o600))

	_, err := run(t, "registry", "check", "--path", path)
	assert.ErrorContains(t, err, "registered twice")
}
