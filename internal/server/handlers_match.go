package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/storage"
	"github.com/jonathan/resume-matcher/internal/types"
)

// MatchRequest selects the strategy and candidate pool for a match run.
// Empty fields use server defaults; an empty candidate pool means every
// stored candidate.
type MatchRequest struct {
	Strategy     string   `json:"strategy" validate:"omitempty,oneof=lexical semantic crossencoder classifier llm"`
	TopN         int      `json:"top_n" validate:"gte=0"`
	CandidateIDs []string `json:"candidate_ids"`
}

// MatchResponse carries the ranked results of a match run.
type MatchResponse struct {
	JobID    string               `json:"job_id"`
	Strategy string               `json:"strategy"`
	Results  []*types.MatchResult `json:"results"`
	Count    int                  `json:"count"`
}

// CompareRequest selects the candidate and strategies for a comparison.
type CompareRequest struct {
	CandidateID string   `json:"candidate_id" validate:"required"`
	Strategies  []string `json:"strategies" validate:"omitempty,dive,oneof=lexical semantic crossencoder classifier llm"`
}

// CompareResponse pairs a comparison with the winning strategy.
type CompareResponse struct {
	Comparison   *types.ComparisonResult `json:"comparison"`
	BestStrategy string                  `json:"best_strategy,omitempty"`
}

// TrainRequest carries labeled pairs for classifier training.
type TrainRequest struct {
	Samples []types.TrainingSample `json:"samples" validate:"required,min=1"`
}

// handleMatch ranks candidates against the job in the path.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req MatchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = s.defaults.Strategy
	}
	if req.TopN == 0 {
		req.TopN = s.defaults.TopN
	}

	candidates, ok := s.resolveCandidates(w, req.CandidateIDs)
	if !ok {
		return
	}

	matcher, err := matching.New(req.Strategy, s.deps)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := matcher.MatchMany(r.Context(), candidates, job, req.TopN)
	if err != nil {
		if errors.Is(err, matching.ErrNotTrained) {
			s.errorResponse(w, http.StatusConflict, "Classifier is not trained; POST /classifier/train first")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, MatchResponse{
		JobID:    job.ID,
		Strategy: req.Strategy,
		Results:  results,
		Count:    len(results),
	})
}

// handleCompare runs several strategies over one candidate/job pair.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req CompareRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	candidate, err := s.store.GetCandidate(req.CandidateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	comparator, err := matching.NewComparator(req.Strategies, s.deps)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	comparison, err := comparator.Compare(r.Context(), candidate, job)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := CompareResponse{Comparison: comparison}
	if best, ok := matching.BestStrategy(comparison); ok {
		resp.BestStrategy = best
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleTrainClassifier trains the classifier strategy on labeled pairs and
// persists the model.
func (s *Server) handleTrainClassifier(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	classifier, err := matching.NewClassifierMatcher(s.deps.ClassifierModelPath, s.deps.Logger)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := classifier.Train(req.Samples); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "trained",
		"samples": len(req.Samples),
	})
}

// handleBuildIndex rebuilds the vector index from all stored candidates.
func (s *Server) handleBuildIndex(w http.ResponseWriter, r *http.Request) {
	if s.deps.Index == nil || s.deps.Encoder == nil {
		s.errorResponse(w, http.StatusConflict, "Index or encoder not configured")
		return
	}

	candidates := s.store.ListCandidates()
	vectors := make([][]float32, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		vec, err := s.embedCandidate(r, candidate)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Encoding failed for "+candidate.ID+": "+err.Error())
			return
		}
		vectors = append(vectors, vec)
		ids = append(ids, candidate.ID)
	}

	s.deps.Index.Reset()
	if len(vectors) > 0 {
		if err := s.deps.Index.Add(vectors, ids); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := s.deps.Index.Save(); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.deps.Store != nil {
		if err := s.deps.Store.Persist(); err != nil {
			s.log.Warn().Err(err).Msg("persisting embedding cache")
		}
	}

	s.log.Info().Int("indexed", len(ids)).Msg("index rebuilt")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "built",
		"indexed": len(ids),
	})
}

func (s *Server) embedCandidate(r *http.Request, candidate *types.CandidateProfile) ([]float32, error) {
	if s.deps.Store != nil {
		return s.deps.Store.GetOrCompute(r.Context(), candidate.ID, candidate.Text(), s.deps.Encoder)
	}
	return s.deps.Encoder.Encode(r.Context(), candidate.Text())
}

// resolveCandidates maps requested ids to stored candidates, or returns the
// full pool when none are named. Writes the error response on failure.
func (s *Server) resolveCandidates(w http.ResponseWriter, ids []string) ([]*types.CandidateProfile, bool) {
	if len(ids) == 0 {
		return s.store.ListCandidates(), true
	}
	candidates := make([]*types.CandidateProfile, 0, len(ids))
	for _, id := range ids {
		candidate, err := s.store.GetCandidate(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.errorResponse(w, http.StatusNotFound, "Candidate not found: "+id)
				return nil, false
			}
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return nil, false
		}
		candidates = append(candidates, candidate)
	}
	return candidates, true
}
