package pipeline

import (
	"fmt"
	"strings"

	"feedjoin/internal"
)

const fieldSeparator = ','

type sourceRecord struct {
	line   int
	fields []string
}

// ParseTable splits delimited text into a header set and rows. Blank lines are
// dropped, the first remaining line is the header line. Malformed rows never
// fail the parse; they are recorded as warnings and paired positionally.
func ParseTable(text string) internal.Table {
	lines := strings.Split(text, "\n")
	records := make([]sourceRecord, 0, len(lines))
	var warnings []internal.ParseWarning

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, balanced := splitFields(line, fieldSeparator)
		if !balanced {
			warnings = append(warnings, internal.ParseWarning{Line: i + 1, Message: "unbalanced quotes"})
		}
		records = append(records, sourceRecord{line: i + 1, fields: fields})
	}

	table := buildTable(records)
	table.Warnings = append(warnings, table.Warnings...)
	return table
}

// splitFields scans one line. A double quote toggles the quoted state and is
// not copied to the field; separators only split outside quotes. A literal
// quote cannot be escaped.
func splitFields(line string, sep rune) ([]string, bool) {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields, !inQuotes
}

// buildTable turns non-blank records into a Table. Every loader goes through
// it so header handling and padding are identical across formats.
func buildTable(records []sourceRecord) internal.Table {
	if len(records) == 0 {
		return internal.Table{Headers: []string{}, Rows: []internal.Row{}}
	}

	headers, warnings := uniqueHeaders(records[0])
	rows := make([]internal.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		switch {
		case len(rec.fields) < len(headers):
			warnings = append(warnings, internal.ParseWarning{
				Line:    rec.line,
				Message: fmt.Sprintf("row has %d fields, expected %d; padding with empty values", len(rec.fields), len(headers)),
			})
		case len(rec.fields) > len(headers):
			warnings = append(warnings, internal.ParseWarning{
				Line:    rec.line,
				Message: fmt.Sprintf("row has %d fields, expected %d; extra fields dropped", len(rec.fields), len(headers)),
			})
		}
		rows = append(rows, internal.NewRow(headers, rec.fields))
	}

	return internal.Table{Headers: headers, Rows: rows, Warnings: warnings}
}

func uniqueHeaders(rec sourceRecord) ([]string, []internal.ParseWarning) {
	var warnings []internal.ParseWarning
	seen := map[string]int{}
	headers := make([]string, 0, len(rec.fields))
	for i, raw := range rec.fields {
		h := strings.TrimSpace(raw)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			renamed := fmt.Sprintf("%s_%d", h, n)
			for seen[renamed] > 0 {
				n++
				renamed = fmt.Sprintf("%s_%d", h, n)
			}
			seen[renamed]++
			warnings = append(warnings, internal.ParseWarning{
				Line:    rec.line,
				Message: fmt.Sprintf("duplicate header %q renamed to %q", h, renamed),
			})
			h = renamed
		}
		headers = append(headers, h)
	}
	return headers, warnings
}

func isBlankRecord(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
