package aggregator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toolwatch/pkg/utils"
)

// ExportCSV renders records as CSV with a header row and one row per
// record. Every cell is quoted with embedded quotes doubled, so the output
// survives any standard CSV reader regardless of commas or newlines in
// command output. Column order follows fields; an empty fields slice uses
// DefaultFields. Absent optional values become empty cells.
func ExportCSV(records []Record, fields []string) []byte {
	if len(fields) == 0 {
		fields = DefaultFields()
	}

	var buf bytes.Buffer
	writeCSVRow(&buf, fields)

	row := make([]string, len(fields))
	for _, r := range records {
		for i, f := range fields {
			row[i] = r.FieldValue(f)
		}
		writeCSVRow(&buf, row)
	}

	return buf.Bytes()
}

// writeCSVRow writes one row, quoting every cell unconditionally.
func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// ExportJSON renders records as indented JSON, the payload used for
// clipboard and file JSON exports.
func ExportJSON(records []Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, &ExportError{Err: err}
	}
	return data, nil
}

// WriteExportFile writes data into dir as "{prefix}-{YYYY-MM-DD}{ext}" and
// returns the full path. Failures are reported as *ExportError.
func WriteExportFile(dir, prefix, ext string, now time.Time, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s%s", prefix, utils.FormatISODate(now), ext)
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}

	return path, nil
}
