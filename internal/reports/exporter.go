package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders printable reports. Every export returns the file
// bytes, a download filename and its content type.
type ReportExporter interface {
	ExportReport(format string, report *models.Report, filter models.Filter) ([]byte, string, string, error)
	ExportActivityLogs(format string, groups []models.ActivityLogGroup) ([]byte, string, string, error)
}

type reportExporter struct {
	now func() time.Time
}

func NewReportExporter() ReportExporter {
	return &reportExporter{now: time.Now}
}

// ExportReport renders a status report: the per-period counts followed by the
// reservation rows behind them
func (e *reportExporter) ExportReport(format string, report *models.Report, filter models.Filter) ([]byte, string, string, error) {
	if report == nil {
		return nil, "", "", fmt.Errorf("no report data to export")
	}

	status := string(report.Status)
	t := table{
		title: fmt.Sprintf("%s Reservations Report", capitalize(status)),
		subtitle: []string{
			fmt.Sprintf("Period: %s/%d - %s/%d (%s)", filter.FromMonth, filter.FromYear, filter.ToMonth, filter.ToYear, filter.PresetLabel()),
			fmt.Sprintf("Generated: %s", e.now().Format(timestampLayout)),
		},
		sheet:   "Report",
		headers: []string{"Guest", "Cottage", "Check-in", "Check-out", "Guests", "Contact", "Amount", "Status"},
		widths:  []float64{45, 40, 28, 28, 18, 35, 30, 30},
	}

	for _, r := range report.TableData {
		t.rows = append(t.rows, []string{
			r.GuestName,
			r.CottageName,
			formatDate(r.CheckIn),
			formatDate(r.CheckOut),
			strconv.Itoa(r.NumberOfGuests),
			r.ContactNumber,
			formatAmount(r.TotalAmount),
			string(r.Status),
		})
	}

	for i, label := range report.Labels {
		for _, ds := range report.Datasets {
			if i < len(ds.Data) {
				t.summary = append(t.summary, []string{fmt.Sprintf("%s (%s)", label, ds.Label), formatNumber(ds.Data[i])})
			}
		}
	}
	total := "-"
	if report.Total != nil {
		total = formatNumber(*report.Total)
	}
	t.summary = append(t.summary, []string{"Total", total})

	return e.render(format, fmt.Sprintf("%s_reservations_report", status), t)
}

// ExportActivityLogs renders the activity log, one row per entry
func (e *reportExporter) ExportActivityLogs(format string, groups []models.ActivityLogGroup) ([]byte, string, string, error) {
	t := table{
		title:    "Activity Logs",
		subtitle: []string{fmt.Sprintf("Generated: %s", e.now().Format(timestampLayout))},
		sheet:    "Activity Logs",
		headers:  []string{"Name", "Role", "Action", "Details", "Timestamp"},
		widths:   []float64{40, 25, 40, 127, 45},
	}

	entries := 0
	for _, g := range groups {
		for _, entry := range g.ActivityLogs {
			t.rows = append(t.rows, []string{
				g.Name,
				string(g.Role),
				entry.Action,
				entry.Details,
				entry.Timestamp.Format(timestampLayout),
			})
			entries++
		}
	}
	t.summary = [][]string{{"Entries", strconv.Itoa(entries)}}

	return e.render(format, "activity_logs", t)
}

func (e *reportExporter) render(format, basename string, t table) ([]byte, string, string, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, "", "", err
	}
	timestamp := e.now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		data, err := exportExcel(t)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("%s_%s.xlsx", basename, timestamp), contentTypeExcel, nil

	case FormatCSV:
		data, err := exportCSV(t)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("%s_%s.csv", basename, timestamp), contentTypeCSV, nil

	default:
		data, err := exportPDF(t)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("%s_%s.pdf", basename, timestamp), contentTypePDF, nil
	}
}

func exportCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.headers); err != nil {
		return nil, err
	}
	for _, record := range t.rows {
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	if len(t.summary) > 0 {
		if err := writer.Write([]string{}); err != nil {
			return nil, err
		}
		for _, pair := range t.summary {
			if err := writer.Write(pair); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, err
	}

	row := 1
	setRow := func(values []string) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(t.sheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := setRow([]string{t.title}); err != nil {
		return nil, err
	}
	for _, line := range t.subtitle {
		if err := setRow([]string{line}); err != nil {
			return nil, err
		}
	}
	row++

	headerRow := row
	if err := setRow(t.headers); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(t.headers), headerRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(t.sheet, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
		return nil, err
	}

	for _, record := range t.rows {
		if err := setRow(record); err != nil {
			return nil, err
		}
	}
	if len(t.summary) > 0 {
		row++
		for _, pair := range t.summary {
			if err := setRow(pair); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(t table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, t.title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	for _, line := range t.subtitle {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, record := range t.rows {
		for i, v := range record {
			pdf.CellFormat(t.widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(t.summary) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 9)
		for _, pair := range t.summary {
			pdf.CellFormat(80, 6, pair[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, pair[1], "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(models.DateLayout)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
