// Package worker implements background tasks that keep the rate table cache warm.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"fxreader/internal/lookup"
	"fxreader/internal/ratetable"
)

// TaskTypeWarmTable is the Asynq task type for cache warm-up jobs.
const TaskTypeWarmTable = "table:warm"

// WarmTablePayload is the payload structure for cache warm-up tasks.
type WarmTablePayload struct {
	Source   string `json:"source"`
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
}

// Key returns the source key the payload refers to.
func (p WarmTablePayload) Key() lookup.SourceKey {
	return lookup.SourceKey{Database: p.Source, Provider: p.Provider, Kind: p.Kind}
}

// TableWarmer refreshes the cached copy of a table.
type TableWarmer interface {
	Warm(ctx context.Context, location string) (*ratetable.Table, error)
}

// NewWarmTableHandler returns a function to handle cache warm-up tasks.
func NewWarmTableHandler(lk lookup.Lookup, warmer TableWarmer, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload WarmTablePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return nil
		}

		key := payload.Key()
		location, err := lk.Resolve(ctx, key)
		if err != nil {
			logger.Errorw("Source lookup failed", "source", key.String(), "error", err)
			return fmt.Errorf("resolve %s: %w", key, err)
		}

		tbl, err := warmer.Warm(ctx, location)
		if err != nil {
			logger.Errorw("Table warm-up failed", "source", key.String(), "error", err)
			return err
		}

		logger.Infow("Table cache warmed", "source", key.String(), "rows", tbl.Len(), "columns", tbl.ColumnCount())
		return nil
	}
}

// AsynqEnqueuer is responsible for enqueuing tasks to an Asynq queue with specific configurations for retries and timeouts.
type AsynqEnqueuer struct {
	client   *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer with the given client, retry limit, and task timeout duration.
func NewAsynqEnqueuer(client *asynq.Client, maxRetry int, timeout time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:   client,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

// NewWarmTableTask builds a warm-up task for payload.
func NewWarmTableTask(payload WarmTablePayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWarmTable, data, opts...), nil
}

// EnqueueWarmTable enqueues a cache warm-up task and returns its task ID.
// The payload is normalized first, so duplicate requests for the same source
// within the task timeout are rejected by Asynq however they are spelled.
func (e *AsynqEnqueuer) EnqueueWarmTable(ctx context.Context, payload WarmTablePayload) (string, error) {
	key := payload.Key().Normalize()
	payload = WarmTablePayload{Source: key.Database, Provider: key.Provider, Kind: key.Kind}

	task, err := NewWarmTableTask(payload,
		asynq.MaxRetry(e.maxRetry),
		asynq.Timeout(e.timeout),
		asynq.Unique(e.timeout),
	)
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}
