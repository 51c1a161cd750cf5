package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/types"
)

// clamp01 forces a score into [0,1].
func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// blend combines the semantic and skills sub-scores with the strategy's
// fixed weights. Both inputs are clamped before blending.
func blend(semantic, skills, semanticWeight, skillsWeight float64) float64 {
	return clamp01(semanticWeight*clamp01(semantic) + skillsWeight*clamp01(skills))
}

// rankAndTruncate sorts results by overall score descending with a stable
// sort (ties keep input order) and truncates to topN after sorting.
func rankAndTruncate(results []*types.MatchResult, topN int) []*types.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallScore > results[j].OverallScore
	})
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// matchEach is the default MatchMany implementation: score candidates
// independently, rank, truncate. ErrNotTrained is a precondition failure and
// propagates; any other per-candidate error is logged and skipped.
func matchEach(ctx context.Context, m Matcher, candidates []*types.CandidateProfile, job *types.JobPosting, topN int, log zerolog.Logger) ([]*types.MatchResult, error) {
	results := make([]*types.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := m.Match(ctx, candidate, job)
		if err != nil {
			if errors.Is(err, ErrNotTrained) {
				return nil, err
			}
			log.Error().Err(err).Str("candidate_id", candidate.ID).Msg("skipping candidate after match error")
			continue
		}
		results = append(results, result)
	}
	return rankAndTruncate(results, topN), nil
}

// newResult assembles a MatchResult with a present semantic sub-score.
func newResult(candidate *types.CandidateProfile, job *types.JobPosting, method string, overall, skills, semantic float64, matched, missing []string, explanation string) *types.MatchResult {
	sem := clamp01(semantic)
	return &types.MatchResult{
		CandidateID:   candidate.ID,
		JobID:         job.ID,
		OverallScore:  clamp01(overall),
		SkillsScore:   clamp01(skills),
		SemanticScore: &sem,
		MatchedSkills: matched,
		MissingSkills: missing,
		Method:        method,
		Explanation:   explanation,
		MatchedAt:     time.Now(),
	}
}

// fallbackResult produces the shared degraded result: Jaccard keyword overlap
// stands in for the semantic sub-score, blended evenly with the skills score,
// and the method carries a "_fallback" suffix.
func fallbackResult(candidate *types.CandidateProfile, job *types.JobPosting, method string, reason string) *types.MatchResult {
	skills, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)
	keyword := jaccardScore(candidate, job)
	overall := blend(keyword, skills, 0.5, 0.5)

	explanation := fmt.Sprintf(
		"Fallback mode (%s)\nSkills match: %.1f%%\nKeyword overlap: %.1f%%",
		reason, skills*100, keyword*100,
	)
	return newResult(candidate, job, method+"_fallback", overall, skills, keyword, matched, missing, explanation)
}

// scoreExplanation renders the standard explanation block shared by the
// deterministic strategies.
func scoreExplanation(label string, overall, semantic, skills float64, matched, missing []string) string {
	lines := []string{
		fmt.Sprintf("Overall Match: %.1f%%", overall*100),
		fmt.Sprintf("  - %s: %.1f%%", label, semantic*100),
		fmt.Sprintf("  - Skills Match: %.1f%%", skills*100),
	}
	if len(matched) > 0 {
		lines = append(lines, fmt.Sprintf("Matched Skills (%d): %s", len(matched), strings.Join(truncateList(matched, 10), ", ")))
	}
	if len(missing) > 0 {
		lines = append(lines, fmt.Sprintf("Missing Skills (%d): %s", len(missing), strings.Join(truncateList(missing, 10), ", ")))
	}
	return strings.Join(lines, "\n")
}

func truncateList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
