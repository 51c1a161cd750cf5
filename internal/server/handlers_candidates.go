package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/storage"
	"github.com/jonathan/resume-matcher/internal/types"
)

// CreateCandidateRequest is the payload for registering a candidate.
type CreateCandidateRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	RawText  string   `json:"raw_text" validate:"required"`
	Summary  string   `json:"summary"`
	Skills   []string `json:"skills"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language" validate:"omitempty,oneof=en ru"`
}

// ListCandidatesResponse wraps the candidate listing.
type ListCandidatesResponse struct {
	Candidates []*types.CandidateProfile `json:"candidates"`
	Count      int                       `json:"count"`
}

// handleCreateCandidate registers a candidate, assigning an ID when the
// payload has none.
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	candidate := &types.CandidateProfile{
		ID:       req.ID,
		Name:     req.Name,
		RawText:  req.RawText,
		Summary:  req.Summary,
		Skills:   req.Skills,
		Keywords: req.Keywords,
		Language: req.Language,
	}
	s.store.PutCandidate(candidate)

	s.log.Info().Str("candidate_id", candidate.ID).Msg("candidate stored")
	s.jsonResponse(w, http.StatusCreated, candidate)
}

// handleListCandidates lists all stored candidates.
func (s *Server) handleListCandidates(w http.ResponseWriter, _ *http.Request) {
	candidates := s.store.ListCandidates()
	s.jsonResponse(w, http.StatusOK, ListCandidatesResponse{
		Candidates: candidates,
		Count:      len(candidates),
	})
}

// handleGetCandidate retrieves a candidate by ID.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.store.GetCandidate(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}

// handleDeleteCandidate removes a candidate by ID.
func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCandidate(r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
