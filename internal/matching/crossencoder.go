package matching

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights for the cross-encoder strategy.
const (
	crossTextWeight   = 0.7
	crossSkillsWeight = 0.3
)

// CrossEncoderMatcher scores candidate/job pairs jointly through a pair
// scorer, typically a reranker model that reads both texts at once. The pair
// score carries most of the weight since the model already sees the full
// context of both documents.
type CrossEncoderMatcher struct {
	pair PairScorer
	log  zerolog.Logger
}

func NewCrossEncoderMatcher(pair PairScorer, log zerolog.Logger) *CrossEncoderMatcher {
	return &CrossEncoderMatcher{pair: pair, log: log.With().Str("matcher", StrategyCrossEncoder).Logger()}
}

func (m *CrossEncoderMatcher) Name() string { return StrategyCrossEncoder }

func (m *CrossEncoderMatcher) Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error) {
	skillsScore, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)

	if m.pair == nil {
		return m.keywordFallback(candidate, job, skillsScore, matched, missing, "no reranker configured"), nil
	}

	pairScore, err := m.pair.ScorePair(ctx, candidate.Text(), job.Text())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.log.Warn().Err(err).
			Str("candidate_id", candidate.ID).
			Str("job_id", job.ID).
			Msg("pair scoring failed, falling back to keyword overlap")
		return m.keywordFallback(candidate, job, skillsScore, matched, missing, "reranker unavailable"), nil
	}

	pairScore = clamp01(pairScore)
	overall := blend(pairScore, skillsScore, crossTextWeight, crossSkillsWeight)
	return newResult(candidate, job, m.Name(), overall, skillsScore, pairScore, matched, missing,
		scoreExplanation("Cross-encoder relevance", overall, pairScore, skillsScore, matched, missing)), nil
}

// keywordFallback scores the pair with keyword overlap when no reranker can
// run, keeping this strategy's blend weights and tagging the method so
// consumers can tell a degraded result apart.
func (m *CrossEncoderMatcher) keywordFallback(candidate *types.CandidateProfile, job *types.JobPosting, skillsScore float64, matched, missing []string, reason string) *types.MatchResult {
	pairScore := jaccardScore(candidate, job)
	overall := blend(pairScore, skillsScore, crossTextWeight, crossSkillsWeight)
	return newResult(candidate, job, m.Name()+"_fallback", overall, skillsScore, pairScore, matched, missing,
		scoreExplanation(fmt.Sprintf("Keyword overlap (%s)", reason), overall, pairScore, skillsScore, matched, missing))
}

func (m *CrossEncoderMatcher) MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error) {
	return matchEach(ctx, m, candidates, job, topN, m.log)
}
