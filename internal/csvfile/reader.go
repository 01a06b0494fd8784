// Package csvfile reads field definitions from a CSV source file.
//
// The first row must be a header containing the five required columns
// (name, label, type_id, input_type_id, options); lookup is by header name,
// not position. Rows are validated in file order and the first invalid row
// aborts the whole read, so a non-nil field slice is always fully valid.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"fieldimport/internal/field"
)

// Columns required in the CSV header, in the order they appear in the
// validated output.
var requiredColumns = []string{"name", "label", "type_id", "input_type_id", "options"}

// MissingColumnError reports a required column absent from the CSV header.
// This is a configuration error raised before any data row is read.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q is missing from the CSV file; check your column headers", e.Column)
}

// columnIndex maps lowercase header names to their position in a row.
type columnIndex map[string]int

// Read loads, parses, and validates the CSV file at path. It returns the
// validated fields in file order, or the first error encountered.
func Read(path string) ([]field.Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}

	records, err := parse(sanitizeUTF8(stripBOM(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source file %s is empty", path)
	}

	idx := makeColumnIndex(records[0])
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	var fields []field.Field
	for i, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}

		f, err := field.ValidateRow(i, field.RowValues{
			Name:        cell(row, idx["name"]),
			Label:       cell(row, idx["label"]),
			TypeID:      cell(row, idx["type_id"]),
			InputTypeID: cell(row, idx["input_type_id"]),
			Options:     cell(row, idx["options"]),
		})
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, nil
}

func parse(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func makeColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(cleanCell(h))] = i
	}
	return idx
}

// cell returns the value at position pos, tolerating short rows.
func cell(row []string, pos int) string {
	if pos >= len(row) {
		return ""
	}
	return row[pos]
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanCell strips spreadsheet export artifacts from a header cell:
// surrounding whitespace, Excel formula prefixes (="value"), and quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// stripBOM removes a UTF-8 byte order mark, common in Windows exports.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so the csv parser never sees broken runes.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}
	return buf.Bytes()
}
