//nolint:revive // types is a standard Go package name pattern
package types

// Agreement levels derived from the variance of strategy scores.
const (
	AgreementHigh    = "high"
	AgreementMedium  = "medium"
	AgreementLow     = "low"
	AgreementUnknown = "unknown"
)

// ComparisonResult aggregates the results of several strategies scoring the
// same (candidate, job) pair. Aggregate statistics are computed only when at
// least two strategies produced a result.
type ComparisonResult struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`

	// Results maps strategy name to that strategy's MatchResult. Strategies
	// that failed are absent.
	Results map[string]*MatchResult `json:"results"`

	AverageScore   float64 `json:"average_score"`
	MedianScore    float64 `json:"median_score"`
	ScoreVariance  float64 `json:"score_variance"`
	AgreementLevel string  `json:"agreement_level"`
}
