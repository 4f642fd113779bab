package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
	"feedjoin/internal/util"
)

const (
	confidenceExact   = 100
	confidencePartial = 80
	confidencePattern = 60
)

// Suggester ranks source headers for a target field. It holds no state
// besides the read-only synonym index.
type Suggester struct {
	index *catalog.Index
	limit int
}

func NewSuggester(index *catalog.Index, limit int) *Suggester {
	if index == nil {
		index = catalog.BuildIndex(nil)
	}
	if limit <= 0 {
		limit = 3
	}
	return &Suggester{index: index, limit: limit}
}

type rankedSuggestion struct {
	internal.Suggestion
	tier     int
	position int
}

func (s *Suggester) Suggest(target string, available []string) []internal.Suggestion {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}

	var ranked []rankedSuggestion
	added := map[string]struct{}{}
	add := func(tier, pos int, header string, confidence int, reason string) {
		if _, ok := added[header]; ok {
			return
		}
		added[header] = struct{}{}
		ranked = append(ranked, rankedSuggestion{
			Suggestion: internal.Suggestion{CandidateField: header, Confidence: confidence, Reason: reason},
			tier:       tier,
			position:   pos,
		})
	}

	for i, h := range available {
		if strings.EqualFold(strings.TrimSpace(h), target) {
			add(0, i, h, confidenceExact, "exact match")
		}
	}

	// Containment compares case-folded text as written. Only the synonym
	// lookup below normalizes punctuation and spacing.
	lowerTarget := strings.ToLower(target)
	for i, h := range available {
		lh := strings.ToLower(strings.TrimSpace(h))
		if lh == "" {
			continue
		}
		if strings.Contains(lh, lowerTarget) || strings.Contains(lowerTarget, lh) {
			add(1, i, h, confidencePartial, "partial match")
		}
	}

	for _, pattern := range s.index.Patterns(target) {
		for i, h := range available {
			if util.ContainsFold(h, pattern) {
				add(2, i, h, confidencePattern, fmt.Sprintf("pattern match: %s", pattern))
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		if ranked[i].tier != ranked[j].tier {
			return ranked[i].tier < ranked[j].tier
		}
		return ranked[i].position < ranked[j].position
	})

	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}
	out := make([]internal.Suggestion, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Suggestion)
	}
	return out
}
