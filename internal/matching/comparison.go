package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Agreement thresholds on the sample variance of strategy scores.
const (
	agreementHighVariance   = 0.01
	agreementMediumVariance = 0.05
)

// Comparator runs several strategies over the same candidate/job pair and
// aggregates their verdicts. Strategies that cannot score a pair, such as an
// untrained classifier, are skipped rather than failing the comparison.
type Comparator struct {
	names    []string
	matchers map[string]Matcher
	log      zerolog.Logger
}

// NewComparator builds the named strategies from deps. With no names given
// it builds every strategy. A strategy whose construction fails outright is
// an error; an untrained classifier constructs fine and is skipped at
// comparison time.
func NewComparator(names []string, deps Deps) (*Comparator, error) {
	if len(names) == 0 {
		names = StrategyNames
	}
	matchers := make(map[string]Matcher, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := matchers[name]; dup {
			continue
		}
		m, err := New(name, deps)
		if err != nil {
			return nil, fmt.Errorf("building %s matcher: %w", name, err)
		}
		matchers[name] = m
		ordered = append(ordered, name)
	}
	return &Comparator{names: ordered, matchers: matchers, log: deps.Logger.With().Str("component", "comparator").Logger()}, nil
}

// Strategies returns the strategy names in the comparator's run order.
func (c *Comparator) Strategies() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Compare scores one candidate against one job with every strategy and
// aggregates the scores. Strategies that error are left out of the result.
func (c *Comparator) Compare(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.ComparisonResult, error) {
	results := make(map[string]*types.MatchResult, len(c.names))
	scores := make([]float64, 0, len(c.names))
	for _, name := range c.names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := c.matchers[name].Match(ctx, candidate, job)
		if err != nil {
			if errors.Is(err, ErrNotTrained) {
				c.log.Debug().Str("strategy", name).Msg("strategy not trained, skipped")
			} else {
				c.log.Warn().Err(err).Str("strategy", name).Msg("strategy failed, skipped")
			}
			continue
		}
		results[name] = result
		scores = append(scores, result.OverallScore)
	}

	variance := sampleVariance(scores)
	return &types.ComparisonResult{
		CandidateID:    candidate.ID,
		JobID:          job.ID,
		Results:        results,
		AverageScore:   mean(scores),
		MedianScore:    median(scores),
		ScoreVariance:  variance,
		AgreementLevel: agreementLevel(len(scores), variance),
	}, nil
}

// CompareMany compares every candidate against the job and returns the
// comparisons sorted by average score descending.
func (c *Comparator) CompareMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting) ([]*types.ComparisonResult, error) {
	comparisons := make([]*types.ComparisonResult, 0, len(candidates))
	for _, candidate := range candidates {
		comparison, err := c.Compare(ctx, candidate, job)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, comparison)
	}
	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].AverageScore > comparisons[j].AverageScore
	})
	return comparisons, nil
}

// agreementLevel grades how closely the strategies agree. Fewer than two
// scores cannot agree or disagree.
func agreementLevel(count int, variance float64) string {
	switch {
	case count < 2:
		return types.AgreementUnknown
	case variance < agreementHighVariance:
		return types.AgreementHigh
	case variance < agreementMediumVariance:
		return types.AgreementMedium
	default:
		return types.AgreementLow
	}
}

// BestStrategy returns the strategy with the highest overall score in a
// comparison. Ties resolve to the first strategy in canonical order: the walk
// follows strategyOrder and a later strategy must strictly beat the incumbent
// to take its place. The second return is false when the comparison holds no
// results.
func BestStrategy(r *types.ComparisonResult) (string, bool) {
	best := ""
	bestScore := -1.0
	for _, name := range strategyOrder(r.Results) {
		if result, ok := r.Results[name]; ok && result.OverallScore > bestScore {
			best = name
			bestScore = result.OverallScore
		}
	}
	return best, best != ""
}

// BestStrategyCounts tallies, over a set of comparisons, how many times each
// strategy produced the winning score. Comparisons with no results contribute
// nothing.
func BestStrategyCounts(comparisons []*types.ComparisonResult) map[string]int {
	counts := make(map[string]int)
	for _, c := range comparisons {
		if best, ok := BestStrategy(c); ok {
			counts[best]++
		}
	}
	return counts
}

// ComparisonCorrelations builds per-strategy score series from a set of
// comparisons over one candidate pool and returns their pairwise Pearson
// correlations. A strategy absent from any comparison is excluded so the
// series stay aligned.
func ComparisonCorrelations(comparisons []*types.ComparisonResult) map[string]float64 {
	series := make(map[string][]float64)
	for _, c := range comparisons {
		for name, result := range c.Results {
			series[name] = append(series[name], result.OverallScore)
		}
	}
	for name, scores := range series {
		if len(scores) != len(comparisons) {
			delete(series, name)
		}
	}
	return ScoreCorrelations(series)
}

// strategyOrder yields canonical strategies first, then any extra keys in
// sorted order.
func strategyOrder(results map[string]*types.MatchResult) []string {
	order := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, name := range StrategyNames {
		if _, ok := results[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	extras := make([]string, 0)
	for name := range results {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(order, extras...)
}

// ScoreCorrelations computes the pairwise Pearson correlation between
// strategy score series gathered over a shared candidate pool. Keys take the
// form "a_vs_b" with strategies in canonical order. Pairs with mismatched or
// too-short series are omitted.
func ScoreCorrelations(scores map[string][]float64) map[string]float64 {
	names := make([]string, 0, len(scores))
	seen := make(map[string]bool, len(scores))
	for _, name := range StrategyNames {
		if _, ok := scores[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range scores {
		if !seen[name] {
			names = append(names, name)
		}
	}

	out := make(map[string]float64)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := scores[names[i]], scores[names[j]]
			if len(a) != len(b) || len(a) < 2 {
				continue
			}
			out[names[i]+"_vs_"+names[j]] = pearson(a, b)
		}
	}
	return out
}
