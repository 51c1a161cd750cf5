package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-matcher/internal/types"
)

func TestPrintJob(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := types.NewJobPosting(types.JobPosting{
		ID:               "j1",
		Title:            "Senior Engineer",
		Company:          "Acme Corp",
		Description:      "Build things.",
		RequiredSkills:   []string{"Go", "Kubernetes"},
		NiceToHaveSkills: []string{"Rust"},
	})

	p.PrintJob(&job)
	output := buf.String()

	assert.Contains(t, output, "JOB POSTING")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Rust")
}

func TestPrintMatchResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	semantic := 0.72
	p.PrintMatchResults([]*types.MatchResult{
		{
			CandidateID:   "cand-1",
			OverallScore:  0.83,
			SkillsScore:   1.0,
			SemanticScore: &semantic,
			Method:        "lexical",
			MatchedSkills: []string{"Go"},
			MissingSkills: []string{"Kafka"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "MATCH RESULTS")
	assert.Contains(t, output, "cand-1")
	assert.Contains(t, output, "83.0%")
	assert.Contains(t, output, "Matched: Go")
	assert.Contains(t, output, "Missing: Kafka")
}

func TestPrintMatchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResults(nil)

	assert.Contains(t, buf.String(), "No candidates matched.")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintComparison(&types.ComparisonResult{
		CandidateID: "cand-1",
		JobID:       "job-1",
		Results: map[string]*types.MatchResult{
			"lexical":  {OverallScore: 0.80},
			"semantic": {OverallScore: 0.82},
		},
		AverageScore:   0.81,
		MedianScore:    0.81,
		ScoreVariance:  0.0002,
		AgreementLevel: types.AgreementHigh,
	})
	output := buf.String()

	assert.Contains(t, output, "STRATEGY COMPARISON")
	assert.Contains(t, output, "lexical")
	assert.Contains(t, output, "Agreement: high")
}

func TestJoinCapped(t *testing.T) {
	assert.Equal(t, "a, b", joinCapped([]string{"a", "b"}, 5))
	assert.Equal(t, "a, b ... and 2 more", joinCapped([]string{"a", "b", "c", "d"}, 2))
}
