package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/clock"
	"github.com/jask/innkeeper/internal/tabular"
)

var ErrUnknownFormat = errors.New("unknown export format")

var exportHeaders = []string{
	"Property", "Location", "Status", "Occupancy", "ADR", "RevPAR", "Revenue", "Expenses", "Profit",
}

// Exporter writes comparison reports into Dir.
type Exporter struct {
	Dir            string
	CurrencySymbol string
	Clock          clock.Clock
	Logger         *zap.Logger
}

// Export writes rows as comparison-<timestamp>.<ext> and returns the path.
func (e *Exporter) Export(ctx context.Context, format tabular.ExportFormat, rows []ComparisonRow) (string, error) {
	var write func(io.Writer, []ComparisonRow) error
	var ext string
	switch format {
	case tabular.ExportCSV:
		write, ext = e.WriteCSV, "csv"
	case tabular.ExportExcel:
		write, ext = e.WriteExcel, "xlsx"
	case tabular.ExportPDF:
		write, ext = e.WritePDF, "pdf"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}

	name := fmt.Sprintf("comparison-%s.%s", clock.OrReal(e.Clock).Now().Format("20060102-150405"), ext)
	path := filepath.Join(e.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := write(f, rows); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s export: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	loggerOrNop(e.Logger).Info("export written",
		zap.String("format", string(format)), zap.String("path", path), zap.Int("rows", len(rows)))
	return path, nil
}

func (e *Exporter) textRecord(r ComparisonRow) []string {
	return []string{
		r.Name,
		r.Location,
		string(r.Status),
		FormatPercent(r.OccupancyRate),
		FormatMoney(r.AvgDailyRate, e.CurrencySymbol),
		FormatMoney(r.RevPAR, e.CurrencySymbol),
		FormatMoney(r.Revenue, e.CurrencySymbol),
		FormatMoney(r.Expenses, e.CurrencySymbol),
		FormatMoney(r.Profit, e.CurrencySymbol),
	}
}

func (e *Exporter) WriteCSV(w io.Writer, rows []ComparisonRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(e.textRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcel writes a single "Comparison" sheet. Money cells hold dollars as
// numbers so the sheet stays sortable.
func (e *Exporter) WriteExcel(w io.Writer, rows []ComparisonRow) error {
	const sheet = "Comparison"
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", bold); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.Name, r.Location, string(r.Status), percentValue(r.OccupancyRate),
			Dollars(r.AvgDailyRate), Dollars(r.RevPAR), Dollars(r.Revenue), Dollars(r.Expenses), Dollars(r.Profit),
		}
		for j, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("I%d", len(rows)+1), money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "I", 14); err != nil {
		return err
	}
	return f.Write(w)
}

func percentValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// WritePDF renders a landscape A4 table using the core Helvetica font.
func (e *Exporter) WritePDF(w io.Writer, rows []ComparisonRow) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Property Comparison", true)
	pdf.SetCreator("innkeeper", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Property Comparison", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{48, 40, 22, 24, 26, 26, 30, 30, 30}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range exportHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		for i, text := range e.textRecord(r) {
			align := "R"
			if i < 3 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(text), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
