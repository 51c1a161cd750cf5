//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// MatchResult is the outcome of scoring one candidate against one job.
// Produced fresh per scoring call and never mutated afterwards.
type MatchResult struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`

	OverallScore float64 `json:"overall_score"`
	SkillsScore  float64 `json:"skills_score"`
	// SemanticScore is nil when the strategy produced no semantic sub-score.
	SemanticScore *float64 `json:"semantic_score,omitempty"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`

	// Method tags the strategy that produced the result. Degraded results
	// carry a "_fallback" suffix so consumers can assert on them.
	Method      string    `json:"method"`
	Explanation string    `json:"explanation,omitempty"`
	MatchedAt   time.Time `json:"matched_at"`
}

// Semantic returns the semantic sub-score and whether one is present.
func (m *MatchResult) Semantic() (float64, bool) {
	if m.SemanticScore == nil {
		return 0, false
	}
	return *m.SemanticScore, true
}

// TrainingSample is a labeled (candidate text, job text) pair used to train
// the classifier strategy. Label is 1 for a good match, 0 otherwise.
type TrainingSample struct {
	CandidateText string `json:"candidate_text"`
	JobText       string `json:"job_text"`
	Label         int    `json:"label"`
}
