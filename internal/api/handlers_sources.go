package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"

	"fxreader/internal/lookup"
	"fxreader/internal/worker"
)

// SourceResponse describes one lookup table entry.
type SourceResponse struct {
	Source    string `json:"source" example:"googleSheets"`
	Provider  string `json:"provider" example:"BoC"`
	Kind      string `json:"kind" example:"spot"`
	Location  string `json:"csv_link" example:"https://docs.google.com/spreadsheets/d/e/.../pub?output=csv"`
	Supported bool   `json:"supported" example:"true"`
}

// WarmRequest represents the request body for a cache warm-up
type WarmRequest struct {
	Source   string `json:"source" example:"googleSheets"`
	Provider string `json:"provider" example:"BoC"`
	Kind     string `json:"kind" example:"spot"`
}

// WarmResponse represents the response for an accepted warm-up
type WarmResponse struct {
	TaskID string `json:"task_id" example:"0f2d8b6e-3b8a-4d3b-9a0e-5f1c2b7d9e41"`
}

// SourceSupport reports whether a source may be queried.
type SourceSupport interface {
	Supports(key lookup.SourceKey) bool
}

// WarmEnqueuer schedules cache warm-up tasks.
type WarmEnqueuer interface {
	EnqueueWarmTable(ctx context.Context, payload worker.WarmTablePayload) (string, error)
}

// HandleListSources godoc
// @Summary List known sources
// @Description Lists the lookup table entries and whether each may be queried.
// @Tags sources
// @Produce json
// @Success 200 {array} SourceResponse "Lookup table entries"
// @Failure 500 {object} ErrorResponse "Lookup table unavailable"
// @Router /sources [get]
func HandleListSources(lister lookup.Lister, support SourceSupport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := lister.Entries(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Lookup table unavailable"})
			return
		}

		out := make([]SourceResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, SourceResponse{
				Source:    e.Key.Database,
				Provider:  e.Key.Provider,
				Kind:      e.Key.Kind,
				Location:  e.Location,
				Supported: support.Supports(e.Key),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleWarmSource godoc
// @Summary Warm the table cache for a source
// @Description Schedules a background download of the source table into the cache. Returns immediately.
// @Tags sources
// @Accept json
// @Produce json
// @Param request body WarmRequest true "Source to warm"
// @Success 202 {object} WarmResponse "Warm-up scheduled"
// @Failure 400 {object} ErrorResponse "Unsupported source"
// @Failure 409 {object} ErrorResponse "Warm-up already scheduled"
// @Failure 500 {object} ErrorResponse "Internal queue error"
// @Router /sources/warm [post]
func HandleWarmSource(enq WarmEnqueuer, support SourceSupport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WarmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
			return
		}

		payload := worker.WarmTablePayload{
			Source:   strings.TrimSpace(req.Source),
			Provider: strings.TrimSpace(req.Provider),
			Kind:     strings.TrimSpace(req.Kind),
		}
		if !support.Supports(payload.Key()) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unsupported source " + payload.Key().String()})
			return
		}

		id, err := enq.EnqueueWarmTable(r.Context(), payload)
		switch {
		case errors.Is(err, asynq.ErrDuplicateTask):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "warm-up already scheduled"})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal queue error"})
			return
		}

		writeJSON(w, http.StatusAccepted, WarmResponse{TaskID: id})
	}
}
