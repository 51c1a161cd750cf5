package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/storage"
	"github.com/jonathan/resume-matcher/internal/types"
)

// CreateJobRequest is the payload for registering a job posting.
type CreateJobRequest struct {
	ID               string   `json:"id"`
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Description      string   `json:"description" validate:"required"`
	Requirements     string   `json:"requirements"`
	Responsibilities string   `json:"responsibilities"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	ExperienceYears  int      `json:"experience_years" validate:"gte=0"`
}

// ListJobsResponse wraps the job listing.
type ListJobsResponse struct {
	Jobs  []*types.JobPosting `json:"jobs"`
	Count int                 `json:"count"`
}

// handleCreateJob registers a job posting, assigning an ID when the payload
// has none. FullText is derived at this point and never recomputed.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	job := types.NewJobPosting(types.JobPosting{
		ID:               req.ID,
		Title:            req.Title,
		Company:          req.Company,
		Location:         req.Location,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		RequiredSkills:   req.RequiredSkills,
		NiceToHaveSkills: req.NiceToHaveSkills,
		ExperienceYears:  req.ExperienceYears,
	})
	s.store.PutJob(&job)

	s.log.Info().Str("job_id", job.ID).Str("title", job.Title).Msg("job stored")
	s.jsonResponse(w, http.StatusCreated, &job)
}

// handleListJobs lists all stored jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := s.store.ListJobs()
	s.jsonResponse(w, http.StatusOK, ListJobsResponse{Jobs: jobs, Count: len(jobs)})
}

// handleGetJob retrieves a job by ID.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob removes a job by ID.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteJob(r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
