package matching

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights for the classifier strategy.
const (
	classifierProbWeight   = 0.6
	classifierSkillsWeight = 0.4
)

// Training hyperparameters.
const (
	classifierMaxFeatures = 5000
	classifierEpochs      = 200
	classifierLearnRate   = 0.5
	classifierMinSamples  = 4
)

// classifierModel is the serialized form of a trained model: the fitted
// vectorizer plus logistic regression weights.
type classifierModel struct {
	Vectorizer *tfidfVectorizer
	Weights    []float64
	Bias       float64
}

// ClassifierMatcher predicts match probability with a logistic regression
// over TF-IDF features of the concatenated candidate and job texts. It must
// be trained before use: Match returns ErrNotTrained until a model has been
// trained or loaded from disk.
type ClassifierMatcher struct {
	mu    sync.RWMutex
	model *classifierModel
	path  string
	log   zerolog.Logger
}

// NewClassifierMatcher loads a previously trained model from path when one
// exists. A missing file is fine, the matcher just starts untrained; a file
// that exists but cannot be decoded is an error.
func NewClassifierMatcher(path string, log zerolog.Logger) (*ClassifierMatcher, error) {
	m := &ClassifierMatcher{path: path, log: log.With().Str("matcher", StrategyClassifier).Logger()}
	if path == "" {
		return m, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("checking classifier model: %w", err)
	}
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ClassifierMatcher) Name() string { return StrategyClassifier }

// Trained reports whether a model is available.
func (m *ClassifierMatcher) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model != nil
}

func pairDocument(candidateText, jobText string) string {
	return candidateText + "\n" + jobText
}

// Train fits the vectorizer and logistic regression on labeled pairs and
// persists the model to the configured path. The sample set must contain
// both positive and negative labels.
func (m *ClassifierMatcher) Train(samples []types.TrainingSample) error {
	if len(samples) < classifierMinSamples {
		return fmt.Errorf("need at least %d training samples, got %d", classifierMinSamples, len(samples))
	}
	var positives, negatives int
	docs := make([]string, len(samples))
	labels := make([]float64, len(samples))
	for i, s := range samples {
		docs[i] = pairDocument(s.CandidateText, s.JobText)
		if s.Label != 0 {
			labels[i] = 1.0
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return errors.New("training samples must include both matching and non-matching pairs")
	}

	vectorizer := fitVectorizer(docs, classifierMaxFeatures)
	features := make([]map[int]float64, len(docs))
	for i, doc := range docs {
		features[i] = vectorizer.transform(doc)
	}

	weights := make([]float64, len(vectorizer.IDF))
	var bias float64
	rng := rand.New(rand.NewSource(42))
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	for epoch := 0; epoch < classifierEpochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			pred := sigmoid(dotSparse(weights, features[idx]) + bias)
			grad := pred - labels[idx]
			for fi, fv := range features[idx] {
				weights[fi] -= classifierLearnRate * grad * fv
			}
			bias -= classifierLearnRate * grad
		}
	}

	model := &classifierModel{Vectorizer: vectorizer, Weights: weights, Bias: bias}
	m.mu.Lock()
	m.model = model
	m.mu.Unlock()

	m.log.Info().
		Int("samples", len(samples)).
		Int("positives", positives).
		Int("features", len(weights)).
		Msg("classifier trained")

	if m.path != "" {
		return m.Save(m.path)
	}
	return nil
}

// Save writes the trained model to path with gob, creating parent
// directories as needed.
func (m *ClassifierMatcher) Save(path string) error {
	m.mu.RLock()
	model := m.model
	m.mu.RUnlock()
	if model == nil {
		return ErrNotTrained
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating model directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(model); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// Load replaces the current model with one decoded from path.
func (m *ClassifierMatcher) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	var model classifierModel
	if err := gob.NewDecoder(f).Decode(&model); err != nil {
		return fmt.Errorf("decoding model: %w", err)
	}

	m.mu.Lock()
	m.model = &model
	m.mu.Unlock()
	return nil
}

func (m *ClassifierMatcher) Match(ctx context.Context, candidate *types.CandidateProfile, job *types.JobPosting) (*types.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	model := m.model
	m.mu.RUnlock()
	if model == nil {
		return nil, ErrNotTrained
	}

	features := model.Vectorizer.transform(pairDocument(candidate.Text(), job.Text()))
	prob := sigmoid(dotSparse(model.Weights, features) + model.Bias)
	skillsScore, matched, missing := skillsOverlap(candidate.Skills, job.RequiredSkills)
	overall := blend(prob, skillsScore, classifierProbWeight, classifierSkillsWeight)

	return newResult(candidate, job, m.Name(), overall, skillsScore, prob, matched, missing,
		scoreExplanation("Model probability", overall, prob, skillsScore, matched, missing)), nil
}

func (m *ClassifierMatcher) MatchMany(ctx context.Context, candidates []*types.CandidateProfile, job *types.JobPosting, topN int) ([]*types.MatchResult, error) {
	return matchEach(ctx, m, candidates, job, topN, m.log)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dotSparse(weights []float64, features map[int]float64) float64 {
	var sum float64
	for idx, val := range features {
		if idx < len(weights) {
			sum += weights[idx] * val
		}
	}
	return sum
}
