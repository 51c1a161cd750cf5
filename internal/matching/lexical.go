package matching

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights for the lexical strategy.
const (
	lexicalTextWeight   = 0.5
	lexicalSkillsWeight = 0.5
)

// LexicalMatcher scores candidates against jobs with TF-IDF cosine
// similarity over the raw texts blended with the skills overlap. It needs
// no external services and serves as the always-available baseline.
type LexicalMatcher struct {
	log zerolog.Logger
}

func NewLexicalMatcher(log zerolog.Logger) *LexicalMatcher {
	return &LexicalMatcher{log: log.With().Str("matcher", StrategyLexical).Logger()}
}

func (m *LexicalMatcher) Name() string { return StrategyLexical }

func (m *LexicalMatcher) Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	textScore := tfidfCosine(candidate.Text(), job.Text())
	skillsScore, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)
	overall := blend(textScore, skillsScore, lexicalTextWeight, lexicalSkillsWeight)

	m.log.Debug().
		Str("candidate_id", candidate.ID).
		Str("job_id", job.ID).
		Float64("text_score", textScore).
		Float64("skills_score", skillsScore).
		Float64("overall", overall).
		Msg("lexical match scored")

	return newResult(candidate, job, m.Name(), overall, skillsScore, textScore, matched, missing,
		scoreExplanation("TF-IDF similarity", overall, textScore, skillsScore, matched, missing)), nil
}

func (m *LexicalMatcher) MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error) {
	return matchEach(ctx, m, candidates, job, topN, m.log)
}
