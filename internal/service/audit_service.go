package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/pkg/jobs"
)

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditService records audit entries asynchronously so write latency
// never lands on the request path. Entries are dropped with a warning
// if the queue is saturated or stopped.
type AuditService struct {
	queue  *jobs.Queue[models.AuditLog]
	logger *zap.Logger
}

// AuditServiceConfig tunes the background writer pool.
type AuditServiceConfig struct {
	Workers    int
	BufferSize int
}

// NewAuditService constructs the service and its worker queue.
func NewAuditService(writer auditWriter, logger *zap.Logger, cfg AuditServiceConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, entry models.AuditLog) error {
		return writer.CreateAuditLog(ctx, &entry)
	}
	queue := jobs.NewQueue("audit", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return &AuditService{queue: queue, logger: logger}
}

// Start launches the worker pool.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains and stops the worker pool.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues one audit entry. Missing ID and timestamp are filled in.
func (s *AuditService) Record(entry models.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if err := s.queue.Enqueue(entry); err != nil {
		s.logger.Warn("dropping audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}
