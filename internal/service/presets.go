package service

import "github.com/jask/innkeeper/internal/database/repository"

// Preset is a canned row filter offered next to the free-text search.
type Preset struct {
	Label string
	Match func(ComparisonRow) bool
}

var AllProperties = Preset{Label: "All Properties", Match: func(ComparisonRow) bool { return true }}

// Presets lists the canned filters in menu order, starting with AllProperties.
var Presets = []Preset{
	AllProperties,
	statusPreset("Online Properties", repository.StatusOnline),
	statusPreset("Offline Properties", repository.StatusOffline),
	statusPreset("Syncing Properties", repository.StatusSyncing),
	{Label: "Occupancy > 85%", Match: func(r ComparisonRow) bool {
		return r.OccupancyRate != nil && *r.OccupancyRate > 85
	}},
	{Label: "Profit > $500K", Match: func(r ComparisonRow) bool {
		return r.Profit != nil && *r.Profit > 500_000_00
	}},
}

func statusPreset(label string, status repository.PropertyStatus) Preset {
	return Preset{Label: label, Match: func(r ComparisonRow) bool { return r.Status == status }}
}

// Apply returns the rows matching p, preserving order. A nil Match keeps all.
func (p Preset) Apply(rows []ComparisonRow) []ComparisonRow {
	if p.Match == nil {
		return rows
	}
	out := make([]ComparisonRow, 0, len(rows))
	for _, r := range rows {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
