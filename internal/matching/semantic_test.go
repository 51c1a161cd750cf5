package matching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/types"
)

// keywordEncoder produces a fixed-dimension vector from keyword hits, so
// tests get deterministic, meaningful similarities without a model.
func keywordEncoder(keywords ...string) embedding.EncoderFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		lower := strings.ToLower(text)
		vec := make([]float32, len(keywords))
		for i, kw := range keywords {
			if strings.Contains(lower, kw) {
				vec[i] = 1.0
			}
		}
		return vec, nil
	}
}

func TestSemanticMatcher_Match(t *testing.T) {
	enc := keywordEncoder("go", "kubernetes", "postgresql", "design")
	m := NewSemanticMatcher(enc, nil, nil, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategySemantic, result.Method)

	semantic, ok := result.Semantic()
	require.True(t, ok)
	// Rescaled cosine lives in [0.5, 1] for non-negative test vectors.
	assert.GreaterOrEqual(t, semantic, 0.5)
	assert.InDelta(t, blend(semantic, 1.0, semanticTextWeight, semanticSkillsWeight), result.OverallScore, 0.001)
}

func TestSemanticMatcher_Match_EncoderFailureFallsBack(t *testing.T) {
	enc := embedding.EncoderFunc(func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	})
	m := NewSemanticMatcher(enc, nil, nil, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategySemantic+"_fallback", result.Method)
	assert.Contains(t, result.Explanation, "embedding unavailable")
	assert.Equal(t, 1.0, result.SkillsScore)
}

func TestSemanticMatcher_Match_NoBackendFallsBack(t *testing.T) {
	m := NewSemanticMatcher(nil, nil, nil, zerolog.Nop())

	result, err := m.Match(context.Background(), strongCandidate(), testJob())

	require.NoError(t, err)
	assert.Equal(t, StrategySemantic+"_fallback", result.Method)
	assert.Contains(t, result.Explanation, "embedding unavailable")
}

func TestSemanticMatcher_Match_UsesCache(t *testing.T) {
	calls := 0
	enc := embedding.EncoderFunc(func(_ context.Context, _ string) ([]float32, error) {
		calls++
		return []float32{1, 0}, nil
	})
	store := embedding.NewStore("")
	m := NewSemanticMatcher(enc, store, nil, zerolog.Nop())

	candidate := strongCandidate()
	job := testJob()

	_, err := m.Match(context.Background(), candidate, job)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = m.Match(context.Background(), candidate, job)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "repeat match must hit the cache")
}

func TestSemanticMatcher_MatchMany_PreselectsFromIndex(t *testing.T) {
	enc := keywordEncoder("go", "kubernetes", "design")
	idx := index.New("")

	candidates := []*types.CandidateProfile{strongCandidate(), weakCandidate()}
	vectors := make([][]float32, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		vec, err := enc.Encode(context.Background(), c.Text())
		require.NoError(t, err)
		vectors = append(vectors, vec)
		ids = append(ids, c.ID)
	}
	require.NoError(t, idx.Add(vectors, ids))

	m := NewSemanticMatcher(enc, nil, idx, zerolog.Nop())
	results, err := m.MatchMany(context.Background(), candidates, testJob(), 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cand-strong", results[0].CandidateID)
}

func TestSemanticMatcher_MatchMany_EmptyIndexScoresFullPool(t *testing.T) {
	enc := keywordEncoder("go", "kubernetes")
	m := NewSemanticMatcher(enc, nil, index.New(""), zerolog.Nop())

	candidates := []*types.CandidateProfile{strongCandidate(), weakCandidate()}
	results, err := m.MatchMany(context.Background(), candidates, testJob(), 10)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestJobCacheKey_ChangesWithText(t *testing.T) {
	jobA := testJob()
	jobB := testJob()
	jobB.FullText = jobA.FullText + " updated requirements"

	keyA := jobCacheKey(jobA)
	keyB := jobCacheKey(jobB)

	assert.True(t, strings.HasPrefix(keyA, "job::job-1::"))
	assert.NotEqual(t, keyA, keyB)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 0.001)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.001)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 0.001)
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
}
