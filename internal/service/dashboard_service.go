package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/scheduling"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type dashboardScheduleReader interface {
	GetRange(ctx context.Context, start, end string) ([]dto.DaySummaryItem, error)
}

type dashboardRevenueReader interface {
	RevenueRange(ctx context.Context, start, end string) (int64, error)
}

type dashboardTankCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// DashboardService aggregates the admin landing-page numbers from the
// expanded schedule and booking revenue.
type DashboardService struct {
	schedule dashboardScheduleReader
	revenue  dashboardRevenueReader
	tanks    dashboardTankCounter
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(schedule dashboardScheduleReader, revenue dashboardRevenueReader, tanks dashboardTankCounter, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		schedule: schedule,
		revenue:  revenue,
		tanks:    tanks,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Summary builds the dashboard for the next `days` days starting today.
func (s *DashboardService) Summary(ctx context.Context, days int) (*dto.DashboardSummary, error) {
	if days <= 0 {
		days = 7
	}
	start := s.now()
	end := start.AddDate(0, 0, days)
	startKey := start.Format(scheduling.DateLayout)
	endKey := end.Format(scheduling.DateLayout)

	items, err := s.schedule.GetRange(ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		Days:              make([]dto.DashboardDay, 0, len(items)),
		UpcomingDaysCount: len(items),
	}
	for _, item := range items {
		summary.Days = append(summary.Days, dto.DashboardDay{
			Date:           item.Date,
			Status:         item.Status,
			TotalSlots:     item.TotalSlots,
			TotalBooked:    item.TotalBooked,
			AvailableSlots: item.AvailableSlots,
		})
		summary.TotalCapacity += item.TotalSlots
		summary.TotalBooked += item.TotalBooked
		summary.TotalAvailable += item.AvailableSlots
	}
	if summary.TotalCapacity > 0 {
		summary.OccupancyPercent = float64(summary.TotalBooked) / float64(summary.TotalCapacity) * 100
	}

	revenue, err := s.revenue.RevenueRange(ctx, startKey, endKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum revenue")
	}
	summary.EstimatedRevenue = revenue

	tanks, err := s.tanks.CountActive(ctx)
	if err != nil {
		// The tank catalogue is cosmetic on the dashboard; log and move on.
		s.logger.Warn("failed to count active tanks", zap.Error(err))
	} else {
		summary.ActiveTanks = tanks
	}

	return summary, nil
}
