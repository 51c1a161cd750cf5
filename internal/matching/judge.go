package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights for the generative-judge strategy.
const (
	judgeScoreWeight  = 0.7
	judgeSkillsWeight = 0.3
)

// Defaults for JudgeOptions zero values.
const (
	defaultJudgeTimeout = 30 * time.Second
	defaultJudgeRetries = 2
	defaultJudgeBackoff = time.Second
)

// JudgeOptions tunes how the judge strategy talks to the model.
type JudgeOptions struct {
	// Timeout bounds each model call.
	Timeout time.Duration
	// Retries is the number of attempts after the first failure.
	Retries int
	// Backoff is the base delay between attempts, growing linearly.
	Backoff time.Duration
}

func (o JudgeOptions) withDefaults() JudgeOptions {
	if o.Timeout <= 0 {
		o.Timeout = defaultJudgeTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	} else if o.Retries == 0 {
		o.Retries = defaultJudgeRetries
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultJudgeBackoff
	}
	return o
}

type judgeKey struct {
	candidateID string
	jobID       string
	model       string
}

type judgeVerdict struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	Reason    string  `json:"reason"`
}

func (v judgeVerdict) explanation() string {
	if v.Reasoning != "" {
		return v.Reasoning
	}
	return v.Reason
}

// JudgeMatcher asks a generative model to assess the candidate/job fit and
// blends the model's verdict with the skills overlap. Verdicts are cached per
// (candidate, job, model) so repeat matches cost nothing. When the model is
// unreachable it degrades to the shared keyword-overlap fallback.
type JudgeMatcher struct {
	client llm.Client
	tier   llm.ModelTier
	opts   JudgeOptions

	mu    sync.Mutex
	cache map[judgeKey]judgeVerdict

	log zerolog.Logger
}

func NewJudgeMatcher(client llm.Client, opts JudgeOptions, log zerolog.Logger) *JudgeMatcher {
	return &JudgeMatcher{
		client: client,
		tier:   llm.TierStandard,
		opts:   opts.withDefaults(),
		cache:  make(map[judgeKey]judgeVerdict),
		log:    log.With().Str("matcher", StrategyLLM).Logger(),
	}
}

func (m *JudgeMatcher) Name() string { return StrategyLLM }

func (m *JudgeMatcher) Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error) {
	skillsScore, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)

	if m.client == nil {
		return fallbackResult(candidate, job, m.Name(), "no model configured"), nil
	}

	key := judgeKey{candidateID: candidate.ID, jobID: job.ID, model: m.client.GetModel(m.tier)}
	verdict, ok := m.cached(key)
	if !ok {
		var err error
		verdict, err = m.judge(ctx, candidate, job)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.log.Warn().Err(err).
				Str("candidate_id", candidate.ID).
				Str("job_id", job.ID).
				Msg("judge call failed, falling back to keyword overlap")
			return fallbackResult(candidate, job, m.Name(), "model unavailable"), nil
		}
		m.remember(key, verdict)
	}

	score := clamp01(verdict.Score)
	overall := blend(score, skillsScore, judgeScoreWeight, judgeSkillsWeight)
	explanation := fmt.Sprintf("Overall Match: %.1f%%\n  - Judge Score: %.1f%%\n  - Skills Match: %.1f%%\nAssessment: %s",
		overall*100, score*100, skillsScore*100, verdict.explanation())

	return newResult(candidate, job, m.Name(), overall, skillsScore, score, matched, missing, explanation), nil
}

func (m *JudgeMatcher) MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error) {
	return matchEach(ctx, m, candidates, job, topN, m.log)
}

func (m *JudgeMatcher) cached(key judgeKey) (judgeVerdict, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cache[key]
	return v, ok
}

func (m *JudgeMatcher) remember(key judgeKey, v judgeVerdict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = v
}

// judge calls the model with per-attempt timeouts and linear backoff between
// attempts, then parses the verdict.
func (m *JudgeMatcher) judge(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (judgeVerdict, error) {
	prompt := prompts.Format(prompts.MustGet("matching.json", "judge_match"), map[string]string{
		"CandidateText": candidate.Text(),
		"JobText":       job.Text(),
	})

	var lastErr error
	attempts := m.opts.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.opts.Backoff
			select {
			case <-ctx.Done():
				return judgeVerdict{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
		raw, err := m.client.GenerateJSON(callCtx, prompt, m.tier)
		cancel()
		if err != nil {
			lastErr = err
			m.log.Debug().Err(err).Int("attempt", attempt+1).Msg("judge attempt failed")
			continue
		}
		return parseVerdict(raw), nil
	}
	return judgeVerdict{}, fmt.Errorf("judge failed after %d attempts: %w", attempts, lastErr)
}

// parseVerdict recovers a verdict from model output: strict JSON first, then
// a regex salvage of the score field, then a zero score carrying the raw text
// as the assessment.
func parseVerdict(raw string) judgeVerdict {
	cleaned := llm.CleanJSONBlock(raw)

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err == nil {
		verdict.Score = clamp01(verdict.Score)
		return verdict
	}

	if score, ok := llm.ExtractScoreField(cleaned); ok {
		return judgeVerdict{Score: clamp01(score), Reasoning: "recovered score from malformed model output"}
	}
	return judgeVerdict{Score: 0.0, Reasoning: cleaned}
}
