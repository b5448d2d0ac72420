package repository

import (
	"context"
	"database/sql"
)

// MetricsRepo handles property_metrics.
type MetricsRepo struct {
	db *sql.DB
}

func NewMetricsRepo(db *sql.DB) *MetricsRepo { return &MetricsRepo{db: db} }

func (r *MetricsRepo) Upsert(ctx context.Context, m Metrics) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO property_metrics(property_id, period, occupancy_rate, avg_daily_rate_cents, revpar_cents, revenue_cents, expenses_cents)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(property_id, period) DO UPDATE SET
	 occupancy_rate=excluded.occupancy_rate,
	 avg_daily_rate_cents=excluded.avg_daily_rate_cents,
	 revpar_cents=excluded.revpar_cents,
	 revenue_cents=excluded.revenue_cents,
	 expenses_cents=excluded.expenses_cents;
	`, m.PropertyID, m.Period, m.OccupancyRate, m.AvgDailyRateCents, m.RevPARCents, m.RevenueCents, m.ExpensesCents)
	return err
}

// ListForPeriod returns metrics keyed by property id.
func (r *MetricsRepo) ListForPeriod(ctx context.Context, period string) (map[string]Metrics, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT property_id, period, occupancy_rate, avg_daily_rate_cents, revpar_cents, revenue_cents, expenses_cents
	FROM property_metrics WHERE period = ?`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Metrics)
	for rows.Next() {
		var m Metrics
		if err := rows.Scan(&m.PropertyID, &m.Period, &m.OccupancyRate, &m.AvgDailyRateCents,
			&m.RevPARCents, &m.RevenueCents, &m.ExpensesCents); err != nil {
			return nil, err
		}
		out[m.PropertyID] = m
	}
	return out, rows.Err()
}

// LatestPeriod returns the most recent period with any metrics, or "" when
// the table is empty.
func (r *MetricsRepo) LatestPeriod(ctx context.Context) (string, error) {
	var period sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(period) FROM property_metrics`).Scan(&period); err != nil {
		return "", err
	}
	return period.String, nil
}
