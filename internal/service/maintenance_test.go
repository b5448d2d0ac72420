package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newSeededStore(t)

	svc := &MaintenanceService{DB: store.DB}
	require.NoError(t, svc.Reset(ctx))

	list, err := store.Properties.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	period, err := store.Metrics.LatestPeriod(ctx)
	require.NoError(t, err)
	require.Empty(t, period)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
