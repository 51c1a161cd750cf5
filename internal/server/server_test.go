package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/storage"
	"github.com/jonathan/resume-matcher/internal/types"
)

func testEncoder() embedding.EncoderFunc {
	keywords := []string{"go", "kubernetes", "postgresql", "design"}
	return func(_ context.Context, text string) ([]float32, error) {
		lower := strings.ToLower(text)
		vec := make([]float32, len(keywords))
		for i, kw := range keywords {
			if strings.Contains(lower, kw) {
				vec[i] = 1.0
			}
		}
		return vec, nil
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	deps := matching.Deps{
		Encoder: testEncoder(),
		Store:   embedding.NewStore(""),
		Index:   index.New(""),
		Logger:  zerolog.Nop(),
	}
	return New(Config{Port: 0, Strategy: "lexical", TopN: 10}, deps, storage.NewMemory(), zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func seedCandidate(t *testing.T, s *Server, id, summary string, skills []string) {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/candidates", CreateCandidateRequest{
		ID:      id,
		RawText: summary,
		Summary: summary,
		Skills:  skills,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func seedJob(t *testing.T, s *Server, id string) {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/jobs", CreateJobRequest{
		ID:             id,
		Title:          "Senior Go Developer",
		Description:    "Build and operate Go microservices on Kubernetes.",
		RequiredSkills: []string{"Go", "Kubernetes", "PostgreSQL"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCandidateCRUD(t *testing.T) {
	s := newTestServer(t)

	seedCandidate(t, s, "c1", "Go developer", []string{"Go"})

	rec := doRequest(t, s, http.MethodGet, "/candidates/c1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp ListCandidatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)

	rec = doRequest(t, s, http.MethodDelete, "/candidates/c1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/candidates/c1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCandidate_AssignsID(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/candidates", CreateCandidateRequest{RawText: "some resume text"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
}

func TestCreateCandidate_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/candidates", CreateCandidateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/candidates", CreateCandidateRequest{RawText: "x", Language: "fr"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_DerivesFullText(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")

	rec := doRequest(t, s, http.MethodGet, "/jobs/j1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var job types.JobPosting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Contains(t, job.FullText, "Senior Go Developer")
	assert.Contains(t, job.FullText, "Required Skills: Go, Kubernetes, PostgreSQL")
}

func TestHandleMatch_RanksCandidates(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")
	seedCandidate(t, s, "strong", "Go engineer running Kubernetes clusters", []string{"Go", "Kubernetes", "PostgreSQL"})
	seedCandidate(t, s, "weak", "Graphic designer", []string{"Photoshop"})

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/match", MatchRequest{Strategy: "lexical"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lexical", resp.Strategy)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "strong", resp.Results[0].CandidateID)
}

func TestHandleMatch_JobNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/jobs/missing/match", MatchRequest{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMatch_UnknownCandidateID(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/match", MatchRequest{CandidateIDs: []string{"ghost"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMatch_UntrainedClassifier(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")
	seedCandidate(t, s, "c1", "Go developer", []string{"Go"})

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/match", MatchRequest{Strategy: "classifier"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleMatch_InvalidStrategy(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/match", map[string]string{"strategy": "oracle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompare(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")
	seedCandidate(t, s, "c1", "Go engineer running Kubernetes clusters", []string{"Go", "Kubernetes"})

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/compare", CompareRequest{
		CandidateID: "c1",
		Strategies:  []string{"lexical", "semantic"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Comparison)
	assert.Len(t, resp.Comparison.Results, 2)
	assert.NotEmpty(t, resp.BestStrategy)
}

func TestHandleCompare_MissingCandidate(t *testing.T) {
	s := newTestServer(t)
	seedJob(t, s, "j1")

	rec := doRequest(t, s, http.MethodPost, "/jobs/j1/compare", CompareRequest{CandidateID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTrainClassifier_RejectsBadSets(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/classifier/train", TrainRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/classifier/train", TrainRequest{
		Samples: []types.TrainingSample{{CandidateText: "a", JobText: "b", Label: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBuildIndex(t *testing.T) {
	s := newTestServer(t)
	seedCandidate(t, s, "c1", "Go engineer", []string{"Go"})
	seedCandidate(t, s, "c2", "Designer", []string{"Figma"})

	rec := doRequest(t, s, http.MethodPost, "/index/build", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, s.deps.Index.Len())

	// Rebuild replaces rather than appends.
	rec = doRequest(t, s, http.MethodPost, "/index/build", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, s.deps.Index.Len())
}
