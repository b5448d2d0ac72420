package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/innkeeper/internal/database/repository"
)

// ComparisonRow is one line of the property comparison table. Metric fields
// are nil when the property has no figures for the reporting period.
type ComparisonRow struct {
	ID            string
	Name          string
	Location      string
	Rooms         int
	Status        repository.PropertyStatus
	Period        string
	OccupancyRate *float64
	AvgDailyRate  *int64 // cents
	RevPAR        *int64 // cents
	Revenue       *int64 // cents
	Expenses      *int64 // cents
	Profit        *int64 // cents
}

// ComparisonService joins properties with their latest metrics.
type ComparisonService struct {
	Properties *repository.PropertyRepo
	Metrics    *repository.MetricsRepo
	Logger     *zap.Logger
}

// Rows loads properties and the latest period's metrics concurrently.
func (s *ComparisonService) Rows(ctx context.Context) ([]ComparisonRow, error) {
	var (
		props   []repository.Property
		period  string
		metrics map[string]repository.Metrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		props, err = s.Properties.List(gctx)
		if err != nil {
			return fmt.Errorf("list properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		period, err = s.Metrics.LatestPeriod(gctx)
		if err != nil {
			return fmt.Errorf("latest period: %w", err)
		}
		if period == "" {
			return nil
		}
		metrics, err = s.Metrics.ListForPeriod(gctx, period)
		if err != nil {
			return fmt.Errorf("metrics for %s: %w", period, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]ComparisonRow, 0, len(props))
	for _, p := range props {
		m, ok := metrics[p.ID]
		rows = append(rows, joinRow(p, m, ok))
	}
	loggerOrNop(s.Logger).Debug("comparison rows loaded",
		zap.Int("properties", len(rows)), zap.String("period", period), zap.Int("with_metrics", len(metrics)))
	return rows, nil
}

func joinRow(p repository.Property, m repository.Metrics, ok bool) ComparisonRow {
	row := ComparisonRow{
		ID:       p.ID,
		Name:     p.Name,
		Location: p.Location,
		Rooms:    p.Rooms,
		Status:   p.Status,
	}
	if !ok {
		return row
	}
	profit := m.RevenueCents - m.ExpensesCents
	row.Period = m.Period
	row.OccupancyRate = &m.OccupancyRate
	row.AvgDailyRate = &m.AvgDailyRateCents
	row.RevPAR = &m.RevPARCents
	row.Revenue = &m.RevenueCents
	row.Expenses = &m.ExpensesCents
	row.Profit = &profit
	return row
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
