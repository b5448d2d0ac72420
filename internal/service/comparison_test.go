package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/seed"
)

func TestComparisonRows(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store := newSeededStore(t)
	require.NoError(t, store.Properties.Upsert(ctx, repository.Property{ID: "new", Name: "Airport Suites", Location: "Denver, CO"}))

	svc := &ComparisonService{Properties: store.Properties, Metrics: store.Metrics}
	rows, err := svc.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	byName := map[string]ComparisonRow{}
	for _, r := range rows {
		byName[r.Name] = r
	}

	grand := byName["Grand Hotel"]
	require.Equal(t, seed.PropertyID("Grand Hotel"), grand.ID)
	require.Equal(t, "2026-09", grand.Period)
	require.NotNil(t, grand.Profit)
	require.EqualValues(t, 500_000_00, *grand.Profit)
	require.Equal(t, 87.5, *grand.OccupancyRate)
	require.Equal(t, repository.StatusOnline, grand.Status)

	airport := byName["Airport Suites"]
	require.Nil(t, airport.OccupancyRate)
	require.Nil(t, airport.Revenue)
	require.Nil(t, airport.Profit)
	require.Empty(t, airport.Period)
}

func TestComparisonRowsEmptyDatabase(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	_, err := store.Properties.DeleteMany(context.Background(), []string{
		seed.PropertyID("Grand Hotel"), seed.PropertyID("Seaside Resort"), seed.PropertyID("Mountain Lodge"),
		seed.PropertyID("City Center Inn"), seed.PropertyID("Harbor View Hotel"),
	})
	require.NoError(t, err)

	svc := &ComparisonService{Properties: store.Properties, Metrics: store.Metrics}
	rows, err := svc.Rows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestComparisonRowsCancelled(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &ComparisonService{Properties: store.Properties, Metrics: store.Metrics}
	_, err := svc.Rows(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
