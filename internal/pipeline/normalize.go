package pipeline

import (
	"strings"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
)

// KeyValue returns the value of the first candidate that is non-empty in the
// row. Composite candidates join their non-empty parts with a space.
func KeyValue(row internal.Row, candidates []catalog.KeyCandidate) string {
	for _, cand := range candidates {
		parts := make([]string, 0, len(cand))
		for _, header := range cand {
			if v := strings.TrimSpace(row.Value(header)); v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return ""
}

// FilterRows drops rows whose customer is empty or one of the ignored
// placeholder values. It is a caller policy applied before the joiner.
func FilterRows(rows []internal.Row, customer []catalog.KeyCandidate, ignored []string) ([]internal.Row, int) {
	skip := make(map[string]struct{}, len(ignored))
	for _, v := range ignored {
		skip[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	kept := make([]internal.Row, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		name := strings.ToLower(KeyValue(row, customer))
		if name == "" {
			dropped++
			continue
		}
		if _, ok := skip[name]; ok {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	return kept, dropped
}
