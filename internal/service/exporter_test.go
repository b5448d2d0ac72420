package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jask/innkeeper/internal/clock"
	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/tabular"
)

func exportFixture() []ComparisonRow {
	return []ComparisonRow{
		{
			Name: "Grand Hotel", Location: "New York, NY", Status: repository.StatusOnline,
			OccupancyRate: ptr(87.5), AvgDailyRate: ptr[int64](245_50), RevPAR: ptr[int64](214_81),
			Revenue: ptr[int64](1_250_000_00), Expenses: ptr[int64](750_000_00), Profit: ptr[int64](500_000_00),
		},
		{Name: "Airport Suites", Location: "Denver, CO", Status: repository.StatusOffline},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	e := &Exporter{CurrencySymbol: "$"}
	require.NoError(t, e.WriteCSV(&buf, exportFixture()))

	want := strings.Join([]string{
		"Property,Location,Status,Occupancy,ADR,RevPAR,Revenue,Expenses,Profit",
		`Grand Hotel,"New York, NY",online,87.5%,$245.50,$214.81,"$1,250,000.00","$750,000.00","$500,000.00"`,
		`Airport Suites,"Denver, CO",offline,,,,,,`,
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestWriteExcel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	e := &Exporter{CurrencySymbol: "$"}
	require.NoError(t, e.WriteExcel(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Comparison")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, exportHeaders, rows[0])
	require.Equal(t, "Grand Hotel", rows[1][0])

	v, err := f.GetCellValue("Comparison", "G2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "1250000", v)

	empty, err := f.GetCellValue("Comparison", "D3")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestWritePDF(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	e := &Exporter{CurrencySymbol: "€"}
	require.NoError(t, e.WritePDF(&buf, exportFixture()))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportWritesTimestampedFile(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "exports")
	e := &Exporter{
		Dir:            dir,
		CurrencySymbol: "$",
		Clock:          clock.Fake(time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)),
	}

	for format, name := range map[tabular.ExportFormat]string{
		tabular.ExportCSV:   "comparison-20261019-083000.csv",
		tabular.ExportExcel: "comparison-20261019-083000.xlsx",
		tabular.ExportPDF:   "comparison-20261019-083000.pdf",
	} {
		path, err := e.Export(context.Background(), format, exportFixture())
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, name), path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestExportUnknownFormat(t *testing.T) {
	t.Parallel()
	e := &Exporter{Dir: t.TempDir()}
	_, err := e.Export(context.Background(), tabular.ExportFormat("docx"), nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}
