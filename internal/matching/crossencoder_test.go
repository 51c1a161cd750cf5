package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/types"
)

type pairScorerFunc func(ctx context.Context, candidateText, jobText string) (float64, error)

func (f pairScorerFunc) ScorePair(ctx context.Context, candidateText, jobText string) (float64, error) {
	return f(ctx, candidateText, jobText)
}

func TestCrossEncoderMatcher_Match(t *testing.T) {
	pair := pairScorerFunc(func(_ context.Context, _, _ string) (float64, error) {
		return 0.8, nil
	})
	m := NewCrossEncoderMatcher(pair, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategyCrossEncoder, result.Method)
	// 0.7*0.8 + 0.3*1.0
	assert.InDelta(t, 0.86, result.OverallScore, 0.001)

	semantic, ok := result.Semantic()
	require.True(t, ok)
	assert.InDelta(t, 0.8, semantic, 0.001)
}

func TestCrossEncoderMatcher_Match_ClampsOutOfRangeScores(t *testing.T) {
	pair := pairScorerFunc(func(_ context.Context, _, _ string) (float64, error) {
		return 3.7, nil
	})
	m := NewCrossEncoderMatcher(pair, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	semantic, ok := result.Semantic()
	require.True(t, ok)
	assert.Equal(t, 1.0, semantic)
	assert.LessOrEqual(t, result.OverallScore, 1.0)
}

func TestCrossEncoderMatcher_Match_ScorerFailureFallsBack(t *testing.T) {
	pair := pairScorerFunc(func(_ context.Context, _, _ string) (float64, error) {
		return 0, errors.New("model not loaded")
	})
	m := NewCrossEncoderMatcher(pair, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategyCrossEncoder+"_fallback", result.Method)
	assert.Contains(t, result.Explanation, "reranker unavailable")
}

func TestCrossEncoderMatcher_Match_NoScorerFallsBack(t *testing.T) {
	m, err := New(StrategyCrossEncoder, Deps{})
	require.NoError(t, err)

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategyCrossEncoder+"_fallback", result.Method)
	assert.Contains(t, result.Explanation, "no reranker configured")
	assert.Equal(t, 1.0, result.SkillsScore)
}

func TestCrossEncoderMatcher_MatchMany(t *testing.T) {
	pair := pairScorerFunc(func(_ context.Context, candidateText, _ string) (float64, error) {
		if candidateText == strongCandidate().Text() {
			return 0.9, nil
		}
		return 0.1, nil
	})
	m := NewCrossEncoderMatcher(pair, zerolog.Nop())

	results, err := m.MatchMany(context.Background(), []*types.CandidateProfile{weakCandidate(), strongCandidate()}, testJob(), 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cand-strong", results[0].CandidateID)
}
