package gormstore

import (
	"context"
	"fmt"
	"time"

	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// OutboxPublisher delivers one outbox row to the message bus.
// key is the aggregate id, used for partitioning.
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, key, payload string) error
}

// LoggingOutboxPublisher is used when no broker is configured.
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType, key, payload string) error {
	logger.Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("key", key),
		zap.String("payload", payload),
	)
	return nil
}

// DefaultStaleAfter how long a PROCESSING row may sit before it is requeued.
const DefaultStaleAfter = 5 * time.Minute

// OutboxWorker relays outbox rows to the broker. Events of one aggregate are
// published in commit order: once a row of an order is held back, the rest of
// that order's rows wait for the next batch.
type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    OutboxPublisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	staleAfter   time.Duration
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher OutboxPublisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
		staleAfter:   DefaultStaleAfter,
	}, nil
}

// Run polls until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := w.repository.ReleaseStale(ctx, w.staleAfter); err != nil {
				logger.Warn("Failed to requeue stale outbox events", zap.Error(err))
			} else if n > 0 {
				logger.Warn("Requeued stale outbox events", zap.Int64("count", n))
			}
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch relays one batch and returns how many events were published.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	rows, err := w.repository.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	held := make(map[string]bool)
	published := 0
	for _, row := range rows {
		if held[row.AggregateID] {
			continue
		}

		claimed, err := w.repository.Claim(ctx, row.ID)
		if err != nil || !claimed {
			logger.Warn("Outbox event not claimed",
				zap.String("event_id", row.ID),
				zap.String("aggregate_id", row.AggregateID),
				zap.Error(err),
			)
			held[row.AggregateID] = true
			continue
		}

		if err := w.publisher.Publish(ctx, row.EventType, row.AggregateID, row.Payload); err != nil {
			held[row.AggregateID] = true
			status, failErr := w.repository.MarkFailed(ctx, row.ID, w.maxRetries)
			if failErr != nil {
				logger.Error("Failed to record outbox delivery failure",
					zap.String("event_id", row.ID),
					zap.Error(failErr),
				)
				continue
			}
			logger.Warn("Outbox publish failed",
				zap.String("event_id", row.ID),
				zap.String("event_type", row.EventType),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}

		if err := w.repository.MarkPublished(ctx, row.ID); err != nil {
			held[row.AggregateID] = true
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
