package reports

import (
	"fmt"
	"strings"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"
)

const timestampLayout = "2006-01-02 15:04:05"

// ParseFormat normalizes a format query value. "excel" is accepted for xlsx.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatExcel, "excel":
		return FormatExcel, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// table is the format-independent shape of one export
type table struct {
	title    string
	subtitle []string
	sheet    string
	headers  []string
	widths   []float64 // mm, PDF only
	rows     [][]string
	summary  [][]string // label/value pairs appended after the rows
}
