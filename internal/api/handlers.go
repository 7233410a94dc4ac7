// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package api

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/kinmap/internal/jobs"
	"github.com/tomtom215/kinmap/internal/logging"
	"github.com/tomtom215/kinmap/internal/metrics"
	"github.com/tomtom215/kinmap/internal/validation"
)

// multipartMemoryLimit is the in-memory budget for parsing multipart
// forms; larger uploads spill to temp files.
const multipartMemoryLimit = 32 << 20

// defaultRecommendations applies when a submission omits the n field.
const defaultRecommendations = 1

// HandlerConfig holds per-handler limits.
type HandlerConfig struct {
	// MaxUploadBytes caps the total size of one submission body.
	MaxUploadBytes int64
}

// Handler implements the HTTP endpoints.
type Handler struct {
	cfg       HandlerConfig
	store     jobs.Store
	artifacts *jobs.ArtifactStore
	runner    *jobs.Runner
	logger    zerolog.Logger
}

// NewHandler creates the endpoint handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(cfg HandlerConfig, store jobs.Store, artifacts *jobs.ArtifactStore, runner *jobs.Runner, logger zerolog.Logger) *Handler {
	if cfg.MaxUploadBytes < 1 {
		cfg.MaxUploadBytes = 64 << 20
	}
	return &Handler{
		cfg:       cfg,
		store:     store,
		artifacts: artifacts,
		runner:    runner,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// submitRequest carries the validated submission parameters.
type submitRequest struct {
	N int `validate:"min=1,max=1000"`
}

// jobResponse is the client-facing view of a job.
type jobResponse struct {
	JobID              string     `json:"job_id"`
	Status             string     `json:"status"`
	N                  int        `json:"n"`
	IncludeProbability bool       `json:"include_probability"`
	Error              string     `json:"error,omitempty"`
	ResultURL          string     `json:"result_url,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
}

func toJobResponse(j *jobs.Job) jobResponse {
	resp := jobResponse{
		JobID:              j.ID,
		Status:             string(j.Status),
		N:                  j.N,
		IncludeProbability: j.IncludeProbability,
		Error:              j.Error,
		CreatedAt:          j.CreatedAt,
		StartedAt:          j.StartedAt,
		FinishedAt:         j.FinishedAt,
	}
	if j.Status == jobs.StatusCompleted {
		resp.ResultURL = "/api/v1/jobs/" + j.ID + "/result"
	}
	return resp
}

// SubmitJob accepts a multipart submission and queues a computation.
//
// Form fields: base_file (required relation file), secondary_file
// (demographic file), use_secondary_file (boolean, default false), and
// n (per-user recommendation count, default 10). Responds 202 with the
// job id; the client polls the status endpoint afterwards.
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
		rw.BadRequest("could not parse multipart form: " + err.Error())
		return
	}

	relation, err := readFormFile(r, "base_file")
	if err != nil {
		metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
		rw.BadRequest("base_file is required")
		return
	}

	useSecondary := false
	if v := r.FormValue("use_secondary_file"); v != "" {
		useSecondary, err = strconv.ParseBool(v)
		if err != nil {
			metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
			rw.BadRequest("use_secondary_file must be a boolean")
			return
		}
	}

	var demographics []byte
	if useSecondary {
		demographics, err = readFormFile(r, "secondary_file")
		if err != nil {
			metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
			rw.BadRequest("secondary_file is required when use_secondary_file is set")
			return
		}
	}

	n := defaultRecommendations
	if v := r.FormValue("n"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil {
			metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
			rw.BadRequest("n must be an integer")
			return
		}
	}
	if verr := validation.ValidateStruct(&submitRequest{N: n}); verr != nil {
		metrics.JobsRejected.WithLabelValues("invalid_input").Inc()
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	job := &jobs.Job{
		ID:                 uuid.New().String(),
		Status:             jobs.StatusPending,
		N:                  n,
		IncludeProbability: useSecondary,
		CreatedAt:          time.Now().UTC(),
	}
	if err := h.store.Create(ctx, job); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Could not persist job")
		rw.InternalError("could not create job")
		return
	}

	sub := jobs.Submission{
		JobID:        job.ID,
		Relation:     relation,
		Demographics: demographics,
		N:            n,
	}
	if err := h.runner.Submit(sub); err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			metrics.JobsRejected.WithLabelValues("queue_full").Inc()
			if _, terr := h.store.Transition(ctx, job.ID, jobs.StatusPending, jobs.StatusFailed, func(j *jobs.Job) {
				j.Error = "submission queue full"
			}); terr != nil {
				logging.Ctx(ctx).Error().Err(terr).Str("job_id", job.ID).Msg("Could not mark rejected job failed")
			}
			rw.ServiceUnavailable("job queue is full, retry later")
			return
		}
		logging.Ctx(ctx).Error().Err(err).Str("job_id", job.ID).Msg("Could not queue job")
		rw.InternalError("could not queue job")
		return
	}

	metrics.JobsSubmitted.Inc()
	logging.Ctx(ctx).Info().
		Str("job_id", job.ID).
		Int("n", n).
		Bool("include_probability", useSecondary).
		Int("relation_bytes", len(relation)).
		Msg("Job accepted")

	rw.Accepted(toJobResponse(job))
}

// readFormFile reads one multipart file field fully into memory.
func readFormFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetJob returns the status of one job.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	job, err := h.store.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		rw.NotFound("job " + id + " not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("job_id", id).Msg("Could not load job")
		rw.InternalError("could not load job")
		return
	}

	rw.Success(toJobResponse(job))
}

// ListJobs returns all known jobs, oldest first.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	list, err := h.store.List(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Could not list jobs")
		rw.InternalError("could not list jobs")
		return
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})

	out := make([]jobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, toJobResponse(j))
	}
	rw.SuccessWithCount(out, len(out))
}

// GetJobResult streams the result artifact of a completed job.
//
// Unfinished jobs get 409 so clients keep polling; failed jobs get 409
// with the failure reason and never an artifact.
func (h *Handler) GetJobResult(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	job, err := h.store.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		rw.NotFound("job " + id + " not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("job_id", id).Msg("Could not load job")
		rw.InternalError("could not load job")
		return
	}

	switch job.Status {
	case jobs.StatusPending, jobs.StatusInProgress:
		rw.Conflict("job " + id + " has not finished")
		return
	case jobs.StatusFailed:
		rw.Conflict("job " + id + " failed: " + job.Error)
		return
	case jobs.StatusCompleted:
	}

	f, err := h.artifacts.Open(id)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("job_id", id).Msg("Result artifact missing for completed job")
		rw.InternalError("result artifact unavailable")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.artifacts.Filename(id)+`"`)
	if _, err := io.Copy(w, f); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("job_id", id).Msg("Result download aborted")
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady reports whether the job store is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if _, err := h.store.List(r.Context()); err != nil {
		rw.ServiceUnavailable("job store unavailable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
