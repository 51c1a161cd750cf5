package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/prompts"
)

// LLMPairScorer adapts an LLM client to the PairScorer contract using the
// cheap model tier. It asks only for a bare relevance score, unlike the judge
// strategy which also collects reasoning.
type LLMPairScorer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMPairScorer wraps client as a pair scorer on the lite tier.
func NewLLMPairScorer(client llm.Client) *LLMPairScorer {
	return &LLMPairScorer{client: client, tier: llm.TierLite}
}

// ScorePair rates the (candidate, job) pair in [0, 1].
func (s *LLMPairScorer) ScorePair(ctx context.Context, candidateText, jobText string) (float64, error) {
	prompt := prompts.Format(prompts.MustGet("matching.json", "pair_score"), map[string]string{
		"CandidateText": candidateText,
		"JobText":       jobText,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return 0, fmt.Errorf("pair scoring failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil {
		return clamp01(out.Score), nil
	}
	if score, ok := llm.ExtractScoreField(cleaned); ok {
		return clamp01(score), nil
	}
	return 0, fmt.Errorf("unparseable pair score response: %q", raw)
}
