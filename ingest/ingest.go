// Package ingest reads candidate customer rows from delimited text or
// spreadsheet files. Both formats feed the same row layout: CustomerName,
// CustomerIPAddress, IPSubnetMask, then an optional Tags column and an
// optional Service code, matched by header name when the file has a header
// row and positionally otherwise.
package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"project/customer-loader/record"
)

// ErrUnsupportedFormat marks a file whose extension is not recognized.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

// Options selects how rows are mapped to fields.
type Options struct {
	// HasHeader maps columns by the names in the first row instead of by
	// position. Unknown header names are ignored.
	HasHeader bool
}

// Read loads raw rows from path, dispatching on the file extension.
// Rows with fewer than the three required fields are logged and skipped;
// the read itself fails only when the file cannot be opened or parsed.
func Read(path string, opts Options, logger *slog.Logger) ([]record.Raw, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, opts, logger)
	case ".xlsx", ".xls":
		return readSpreadsheet(path, opts, logger)
	default:
		return nil, fmt.Errorf("%w: %q (want .csv, .xlsx or .xls)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readCSV(path string, opts Options, logger *slog.Logger) ([]record.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short rows are handled per-row below
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file %s: %w", path, err)
	}
	return mapRows(rows, opts, logger), nil
}

func readSpreadsheet(path string, opts Options, logger *slog.Logger) ([]record.Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", path, err)
	}
	return mapRows(rows, opts, logger), nil
}

// column positions for headerless input
const (
	colName = iota
	colIP
	colMask
	colService
)

func mapRows(rows [][]string, opts Options, logger *slog.Logger) []record.Raw {
	idx := map[string]int{
		"customername":      colName,
		"customeripaddress": colIP,
		"ipsubnetmask":      colMask,
		"service":           colService,
		"tags":              -1,
	}
	start := 0
	if opts.HasHeader && len(rows) > 0 {
		idx = headerIndex(rows[0])
		start = 1
	}

	var out []record.Raw
	for i, row := range rows[start:] {
		line := start + i + 1
		raw := record.Raw{
			Name:    cell(row, idx["customername"]),
			IP:      cell(row, idx["customeripaddress"]),
			Mask:    cell(row, idx["ipsubnetmask"]),
			Tags:    cell(row, idx["tags"]),
			Service: cell(row, idx["service"]),
			Line:    line,
		}
		if raw.Name == "" && raw.IP == "" && raw.Mask == "" && raw.Tags == "" && raw.Service == "" {
			continue // blank line
		}
		if raw.Name == "" || raw.IP == "" || raw.Mask == "" {
			logger.Warn("skipping row", "line", line,
				"err", fmt.Sprintf("%v: need name, IP address and subnet mask", record.ErrMissingField))
			continue
		}
		out = append(out, raw)
	}
	return out
}

// headerIndex maps the known column names (case-insensitive, whitespace
// ignored) to their positions. Missing columns map to -1.
func headerIndex(header []string) map[string]int {
	idx := map[string]int{
		"customername":      -1,
		"customeripaddress": -1,
		"ipsubnetmask":      -1,
		"tags":              -1,
		"service":           -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, known := idx[key]; known {
			idx[key] = i
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
