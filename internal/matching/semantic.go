package matching

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights for the semantic strategy.
const (
	semanticTextWeight   = 0.6
	semanticSkillsWeight = 0.4
)

// SemanticMatcher scores candidates with embedding cosine similarity blended
// with the skills overlap. Embeddings are cached in the store keyed by
// candidate ID and by a job key derived from the job text, so repeat matches
// against the same documents never re-encode. An optional vector index
// narrows the candidate pool before ranking.
type SemanticMatcher struct {
	encoder embedding.Encoder
	store   *embedding.Store
	index   *index.Flat
	log     zerolog.Logger
}

func NewSemanticMatcher(enc embedding.Encoder, store *embedding.Store, idx *index.Flat, log zerolog.Logger) *SemanticMatcher {
	return &SemanticMatcher{
		encoder: enc,
		store:   store,
		index:   idx,
		log:     log.With().Str("matcher", StrategySemantic).Logger(),
	}
}

func (m *SemanticMatcher) Name() string { return StrategySemantic }

// jobCacheKey identifies a job embedding by ID plus a hash of the job text,
// so an edited description invalidates the cached vector.
func jobCacheKey(job *types.JobPosting) string {
	h := fnv.New64a()
	h.Write([]byte(job.Text()))
	return fmt.Sprintf("job::%s::%x", job.ID, h.Sum64())
}

func (m *SemanticMatcher) embed(ctx context.Context, key, text string) ([]float32, error) {
	if m.store != nil {
		return m.store.GetOrCompute(ctx, key, text, m.encoder)
	}
	if m.encoder == nil {
		return nil, fmt.Errorf("no encoder configured")
	}
	return m.encoder.Encode(ctx, text)
}

func (m *SemanticMatcher) Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error) {
	skillsScore, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)

	textScore, err := m.textSimilarity(ctx, candidate, job)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.log.Warn().Err(err).
			Str("candidate_id", candidate.ID).
			Str("job_id", job.ID).
			Msg("embedding failed, falling back to keyword overlap")
		textScore = jaccardScore(candidate, job)
		overall := blend(textScore, skillsScore, semanticTextWeight, semanticSkillsWeight)
		return newResult(candidate, job, m.Name()+"_fallback", overall, skillsScore, textScore, matched, missing,
			scoreExplanation("Keyword overlap (embedding unavailable)", overall, textScore, skillsScore, matched, missing)), nil
	}

	overall := blend(textScore, skillsScore, semanticTextWeight, semanticSkillsWeight)
	return newResult(candidate, job, m.Name(), overall, skillsScore, textScore, matched, missing,
		scoreExplanation("Embedding similarity", overall, textScore, skillsScore, matched, missing)), nil
}

// textSimilarity returns the cosine similarity of the candidate and job
// embeddings rescaled from [-1, 1] to [0, 1].
func (m *SemanticMatcher) textSimilarity(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (float64, error) {
	candVec, err := m.embed(ctx, candidate.ID, candidate.Text())
	if err != nil {
		return 0, fmt.Errorf("encoding candidate %s: %w", candidate.ID, err)
	}
	jobVec, err := m.embed(ctx, jobCacheKey(job), job.Text())
	if err != nil {
		return 0, fmt.Errorf("encoding job %s: %w", job.ID, err)
	}
	return (cosineSimilarity(candVec, jobVec) + 1.0) / 2.0, nil
}

// MatchMany narrows the pool through the vector index when one is available,
// then scores and ranks the remaining candidates. If the index returns no
// usable hits the full pool is scored instead.
func (m *SemanticMatcher) MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error) {
	pool := candidates
	if m.index != nil && m.index.Len() > 0 {
		if narrowed := m.preselect(ctx, candidates, job, topN); len(narrowed) > 0 {
			pool = narrowed
		}
	}
	return matchEach(ctx, m, pool, job, topN, m.log)
}

func (m *SemanticMatcher) preselect(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) []*types.CandidateProfile {
	jobVec, err := m.embed(ctx, jobCacheKey(job), job.Text())
	if err != nil {
		m.log.Warn().Err(err).Str("job_id", job.ID).Msg("preselection skipped, job embedding failed")
		return nil
	}

	topK := 3 * topN
	if topK < 10 {
		topK = 10
	}
	hits := m.index.Search(jobVec, topK)
	if len(hits) == 0 {
		return nil
	}

	keep := make(map[string]bool, len(hits))
	for _, hit := range hits {
		keep[hit.ID] = true
	}
	narrowed := make([]*types.CandidateProfile, 0, len(hits))
	for _, c := range candidates {
		if keep[c.ID] {
			narrowed = append(narrowed, c)
		}
	}
	m.log.Debug().
		Int("pool", len(candidates)).
		Int("narrowed", len(narrowed)).
		Int("top_k", topK).
		Msg("preselected candidates via index")
	return narrowed
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
