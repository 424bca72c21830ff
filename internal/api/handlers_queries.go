package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fxreader/internal/repository"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// QueryLogResponse represents one recorded query
type QueryLogResponse struct {
	ID         string  `json:"id" example:"5b0c7a4e-8a43-4d53-9b25-4f3a8a1c9e10"`
	Source     string  `json:"source" example:"googleSheets"`
	Provider   string  `json:"provider" example:"BoC"`
	Kind       string  `json:"kind" example:"spot"`
	Pairs      string  `json:"pairs" example:"AUDCAD,INRCAD"`
	Filter     string  `json:"filter" example:"tail_rows"`
	StatusCode int     `json:"status_code" example:"1"`
	Message    string  `json:"message" example:"Query Successful"`
	Rows       int     `json:"rows" example:"10"`
	Columns    int     `json:"columns" example:"2"`
	DurationMs int64   `json:"duration_ms" example:"184"`
	Error      *string `json:"error,omitempty"`
	CreatedAt  string  `json:"created_at" example:"2024-01-02T10:15:30Z"`
}

// RecentQueryLister returns recorded queries, newest first.
type RecentQueryLister interface {
	RecentQueries(ctx context.Context, limit int) ([]repository.QueryLogEntry, error)
}

// HandleRecentQueries godoc
// @Summary List recent queries
// @Description Returns the most recent rate queries from the query log, newest first.
// @Tags queries
// @Produce json
// @Param limit query int false "Maximum entries" minimum(1) maximum(200) default(20)
// @Success 200 {array} QueryLogResponse "Recorded queries"
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /queries/recent [get]
func HandleRecentQueries(svc RecentQueryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxRecentLimit {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 200"})
				return
			}
			limit = n
		}

		entries, err := svc.RecentQueries(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			return
		}

		out := make([]QueryLogResponse, len(entries))
		for i, e := range entries {
			out[i] = QueryLogResponse{
				ID:         e.ID,
				Source:     e.Source,
				Provider:   e.Provider,
				Kind:       e.Kind,
				Pairs:      e.Pairs,
				Filter:     e.Filter,
				StatusCode: e.StatusCode,
				Message:    e.Message,
				Rows:       e.Rows,
				Columns:    e.Columns,
				DurationMs: e.Duration.Milliseconds(),
				Error:      e.Error,
				CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
