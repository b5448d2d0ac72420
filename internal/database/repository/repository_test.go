package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/innkeeper/internal/database"
	"github.com/jask/innkeeper/internal/database/repository"
)

func openTestDB(t *testing.T) (*repository.PropertyRepo, *repository.MetricsRepo, *repository.UserRepo) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db, ""))
	return repository.NewPropertyRepo(db), repository.NewMetricsRepo(db), repository.NewUserRepo(db)
}

func TestPropertyRepoCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	props, _, _ := openTestDB(t)

	require.NoError(t, props.Upsert(ctx, repository.Property{ID: "p2", Name: "Seaside Resort", Location: "Miami, FL", Rooms: 220}))
	require.NoError(t, props.Upsert(ctx, repository.Property{ID: "p1", Name: "Grand Hotel", Location: "New York, NY", Rooms: 150, Status: repository.StatusOffline}))

	list, err := props.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Grand Hotel", list[0].Name)
	require.Equal(t, repository.StatusOffline, list[0].Status)
	require.Equal(t, repository.StatusOnline, list[1].Status)
	require.False(t, list[0].CreatedAt.IsZero())

	require.NoError(t, props.Rename(ctx, "p1", "  Grand Hotel Midtown "))
	got, err := props.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Grand Hotel Midtown", got.Name)

	require.NoError(t, props.SetStatus(ctx, "p1", repository.StatusSyncing))
	got, err = props.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusSyncing, got.Status)

	n, err := props.SetAllStatus(ctx, repository.StatusOnline)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestPropertyRepoErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	props, _, _ := openTestDB(t)

	_, err := props.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, props.Rename(ctx, "missing", "x"), repository.ErrNotFound)
	require.ErrorIs(t, props.SetStatus(ctx, "missing", repository.StatusOnline), repository.ErrNotFound)
	require.Error(t, props.Rename(ctx, "missing", "   "))
	require.Error(t, props.SetStatus(ctx, "missing", "paused"))
	require.Error(t, props.Upsert(ctx, repository.Property{ID: "p", Name: "x", Status: "paused"}))
}

func TestDeleteManyCascadesMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	props, metrics, _ := openTestDB(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, props.Upsert(ctx, repository.Property{ID: id, Name: "Hotel " + id}))
		require.NoError(t, metrics.Upsert(ctx, repository.Metrics{PropertyID: id, Period: "2026-09", RevenueCents: 100}))
	}

	n, err := props.DeleteMany(ctx, []string{"a", "c", "zzz"})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	list, err := props.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].ID)

	byID, err := metrics.ListForPeriod(ctx, "2026-09")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Contains(t, byID, "b")

	n, err = props.DeleteMany(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMetricsRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	props, metrics, _ := openTestDB(t)

	latest, err := metrics.LatestPeriod(ctx)
	require.NoError(t, err)
	require.Empty(t, latest)

	require.NoError(t, props.Upsert(ctx, repository.Property{ID: "p1", Name: "Grand Hotel"}))
	require.NoError(t, metrics.Upsert(ctx, repository.Metrics{PropertyID: "p1", Period: "2026-08", OccupancyRate: 80}))
	require.NoError(t, metrics.Upsert(ctx, repository.Metrics{PropertyID: "p1", Period: "2026-09", OccupancyRate: 85.5, RevenueCents: 450000_00}))
	require.NoError(t, metrics.Upsert(ctx, repository.Metrics{PropertyID: "p1", Period: "2026-09", OccupancyRate: 86, RevenueCents: 460000_00}))

	latest, err = metrics.LatestPeriod(ctx)
	require.NoError(t, err)
	require.Equal(t, "2026-09", latest)

	byID, err := metrics.ListForPeriod(ctx, latest)
	require.NoError(t, err)
	require.Equal(t, 86.0, byID["p1"].OccupancyRate)
	require.EqualValues(t, 460000_00, byID["p1"].RevenueCents)
}

func TestUserRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, _, users := openTestDB(t)

	_, err := users.GetByUsername(ctx, "admin")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, users.Upsert(ctx, repository.User{ID: "u1", Username: "admin", PasswordHash: "h1"}))
	u, err := users.GetByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "h1", u.PasswordHash)
}
