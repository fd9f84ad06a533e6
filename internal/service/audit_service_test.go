package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/models"
)

type stubAuditWriter struct {
	entries chan models.AuditLog
}

func (s *stubAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.entries <- *log
	return nil
}

func TestAuditServiceRecordReachesWriter(t *testing.T) {
	writer := &stubAuditWriter{entries: make(chan models.AuditLog, 4)}
	svc := NewAuditService(writer, nil, AuditServiceConfig{Workers: 1, BufferSize: 4})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(models.AuditLog{Action: models.AuditActionBookingCreate, Entity: "appointment"})

	select {
	case entry := <-writer.entries:
		assert.Equal(t, models.AuditActionBookingCreate, entry.Action)
		assert.Equal(t, "appointment", entry.Entity)
		assert.NotEmpty(t, entry.ID, "missing ID is filled before enqueue")
		assert.False(t, entry.OccurredAt.IsZero(), "missing timestamp is filled before enqueue")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit entry")
	}
}

func TestAuditServiceDropsWhenStopped(t *testing.T) {
	writer := &stubAuditWriter{entries: make(chan models.AuditLog, 4)}
	svc := NewAuditService(writer, nil, AuditServiceConfig{Workers: 1, BufferSize: 4})

	// Never started: Record must not block or panic, the entry is dropped.
	svc.Record(models.AuditLog{Action: models.AuditActionLogin})

	require.Empty(t, writer.entries)
}
