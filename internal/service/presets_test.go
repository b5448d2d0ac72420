package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jask/innkeeper/internal/database/repository"
)

func presetFixture() []ComparisonRow {
	return []ComparisonRow{
		{ID: "1", Name: "Grand Hotel", Status: repository.StatusOnline, OccupancyRate: ptr(87.5), Profit: ptr[int64](500_000_00)},
		{ID: "2", Name: "Seaside Resort", Status: repository.StatusOnline, OccupancyRate: ptr(92.3), Profit: ptr[int64](750_000_00)},
		{ID: "3", Name: "Mountain Lodge", Status: repository.StatusOffline, OccupancyRate: ptr(78.9), Profit: ptr[int64](330_000_00)},
		{ID: "4", Name: "City Center Inn", Status: repository.StatusSyncing, OccupancyRate: ptr(83.2), Profit: ptr[int64](370_000_00)},
		{ID: "5", Name: "Airport Suites", Status: repository.StatusOnline},
	}
}

func ids(rows []ComparisonRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestPresets(t *testing.T) {
	t.Parallel()
	rows := presetFixture()
	want := map[string][]string{
		"All Properties":     {"1", "2", "3", "4", "5"},
		"Online Properties":  {"1", "2", "5"},
		"Offline Properties": {"3"},
		"Syncing Properties": {"4"},
		"Occupancy > 85%":    {"1", "2"},
		"Profit > $500K":     {"2"},
	}
	if len(Presets) != len(want) {
		t.Fatalf("got %d presets, want %d", len(Presets), len(want))
	}
	for _, p := range Presets {
		if diff := cmp.Diff(want[p.Label], ids(p.Apply(rows))); diff != "" {
			t.Errorf("%s (-want +got):\n%s", p.Label, diff)
		}
	}
}

func TestPresetNilMatchKeepsRows(t *testing.T) {
	t.Parallel()
	rows := presetFixture()
	if got := len(Preset{Label: "x"}.Apply(rows)); got != len(rows) {
		t.Fatalf("got %d rows", got)
	}
}
