package tui

import (
	"strings"

	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/service"
	"github.com/jask/innkeeper/internal/tabular"
)

// comparisonSchema exposes money as plain dollar amounts: a search matches
// the bare number ("500000", "1250000.5"), not the formatted cell text, and
// sorting stays numeric. Searching one column (the "c" menu) matches the
// formatted text instead.
func comparisonSchema() tabular.Schema[service.ComparisonRow] {
	fields := []tabular.Field[service.ComparisonRow]{
		{Name: "id", Value: func(r service.ComparisonRow) any { return r.ID }},
		{Name: "name", Value: func(r service.ComparisonRow) any { return r.Name }},
		{Name: "location", Value: func(r service.ComparisonRow) any { return r.Location }},
		{Name: "rooms", Value: func(r service.ComparisonRow) any { return r.Rooms }},
		{Name: "status", Value: func(r service.ComparisonRow) any { return string(r.Status) }},
		{Name: "occupancy", Value: func(r service.ComparisonRow) any { return r.OccupancyRate }},
		{Name: "adr", Value: func(r service.ComparisonRow) any { return service.Dollars(r.AvgDailyRate) }},
		{Name: "revpar", Value: func(r service.ComparisonRow) any { return service.Dollars(r.RevPAR) }},
		{Name: "revenue", Value: func(r service.ComparisonRow) any { return service.Dollars(r.Revenue) }},
		{Name: "expenses", Value: func(r service.ComparisonRow) any { return service.Dollars(r.Expenses) }},
		{Name: "profit", Value: func(r service.ComparisonRow) any { return service.Dollars(r.Profit) }},
	}
	return tabular.Schema[service.ComparisonRow]{Key: tabular.KeyField(fields, "id"), Fields: fields}
}

func comparisonColumns(currency string) []tabular.Column[service.ComparisonRow] {
	money := func(get func(service.ComparisonRow) *int64) func(service.ComparisonRow) string {
		return func(r service.ComparisonRow) string { return service.FormatMoney(get(r), currency) }
	}
	return []tabular.Column[service.ComparisonRow]{
		{Key: "name", Header: "Property"},
		{Key: "location", Header: "Location"},
		{Key: "status", Header: "Status", Width: 9, Render: func(r service.ComparisonRow) string { return statusLabel(r.Status) }},
		{Key: "occupancy", Header: "Occupancy", Width: 11, Align: tabular.AlignRight,
			Render: func(r service.ComparisonRow) string { return service.FormatPercent(r.OccupancyRate) }},
		{Key: "adr", Header: "ADR", Width: 10, Align: tabular.AlignRight,
			Render: money(func(r service.ComparisonRow) *int64 { return r.AvgDailyRate })},
		{Key: "revpar", Header: "RevPAR", Width: 10, Align: tabular.AlignRight,
			Render: money(func(r service.ComparisonRow) *int64 { return r.RevPAR })},
		{Key: "revenue", Header: "Revenue", Width: 15, Align: tabular.AlignRight,
			Render: money(func(r service.ComparisonRow) *int64 { return r.Revenue })},
		{Key: "expenses", Header: "Expenses", Width: 15, Align: tabular.AlignRight,
			Render: money(func(r service.ComparisonRow) *int64 { return r.Expenses })},
		{Key: "profit", Header: "Profit", Width: 15, Align: tabular.AlignRight,
			Render: money(func(r service.ComparisonRow) *int64 { return r.Profit })},
	}
}

func statusLabel(s repository.PropertyStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
