package catalog

import "feedjoin/internal/util"

// Index resolves a target field name to its synonym patterns by normalized key.
type Index struct {
	PatternsByKey map[string][]string
}

func BuildIndex(synonyms []Synonym) *Index {
	idx := &Index{PatternsByKey: map[string][]string{}}
	for _, s := range synonyms {
		key := util.NormalizeKey(s.Target)
		if key == "" {
			continue
		}
		for _, p := range s.Patterns {
			if p == "" || containsString(idx.PatternsByKey[key], p) {
				continue
			}
			idx.PatternsByKey[key] = append(idx.PatternsByKey[key], p)
		}
	}
	return idx
}

func (i *Index) Patterns(target string) []string {
	return i.PatternsByKey[util.NormalizeKey(target)]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
