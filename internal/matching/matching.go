// Package matching implements the candidate/job matching engine: five
// interchangeable scorer strategies behind one contract, score blending and
// ranking, and a comparison utility for cross-strategy evaluation.
package matching

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Strategy names accepted by New.
const (
	StrategyLexical      = "lexical"
	StrategySemantic     = "semantic"
	StrategyCrossEncoder = "crossencoder"
	StrategyClassifier   = "classifier"
	StrategyLLM          = "llm"
)

// StrategyNames lists all strategies in their canonical order. The order is
// load-bearing for deterministic iteration in the comparison utility.
var StrategyNames = []string{
	StrategyLexical,
	StrategySemantic,
	StrategyCrossEncoder,
	StrategyClassifier,
	StrategyLLM,
}

// Matcher scores candidates against a job. Implementations must clamp scores
// to [0,1] and must not fail on well-formed inputs: backend trouble degrades
// to a tagged fallback result. The one exception is the classifier strategy,
// which returns ErrNotTrained until a model is available.
type Matcher interface {
	// Name returns the strategy name the matcher was registered under.
	Name() string
	// Match scores one candidate against one job.
	Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error)
	// MatchMany scores each candidate, sorts by overall score descending
	// (stable, so ties keep input order) and truncates to topN.
	MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error)
}

// PairScorer is the narrow surface of a cross-attention scoring backend:
// it scores a (candidate text, job text) pair directly.
type PairScorer interface {
	ScorePair(ctx context.Context, candidateText, jobText string) (float64, error)
}

// Deps carries the shared resources and pluggable backends strategies are
// built from. Every field is optional; a strategy missing its backend
// degrades to its documented fallback (capability is checked once, at
// construction).
type Deps struct {
	// Encoder and Store serve the semantic strategy. Store may be shared
	// across matchers owned by the same caller.
	Encoder embedding.Encoder
	Store   *embedding.Store
	// Index preselects candidates for the semantic strategy's MatchMany.
	Index *index.Flat
	// Pair serves the cross-encoder strategy.
	Pair PairScorer
	// Judge serves the generative-judge strategy.
	Judge llm.Client
	// JudgeOptions tunes judge timeouts and retries; zero value uses defaults.
	JudgeOptions JudgeOptions
	// ClassifierModelPath is where the trained classifier model lives.
	ClassifierModelPath string
	// Logger receives strategy diagnostics; zerolog.Nop() by default.
	Logger zerolog.Logger
}

// New constructs the named strategy from deps.
func New(name string, deps Deps) (Matcher, error) {
	switch name {
	case StrategyLexical:
		return NewLexicalMatcher(deps.Logger), nil
	case StrategySemantic:
		return NewSemanticMatcher(deps.Encoder, deps.Store, deps.Index, deps.Logger), nil
	case StrategyCrossEncoder:
		return NewCrossEncoderMatcher(deps.Pair, deps.Logger), nil
	case StrategyClassifier:
		return NewClassifierMatcher(deps.ClassifierModelPath, deps.Logger)
	case StrategyLLM:
		return NewJudgeMatcher(deps.Judge, deps.JudgeOptions, deps.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
