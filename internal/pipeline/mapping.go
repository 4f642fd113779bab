package pipeline

import "feedjoin/internal"

type SeedOptions struct {
	// EnableThreshold is the lowest top-suggestion confidence that enables an
	// optional field on its own.
	EnableThreshold int
}

// AvailableFields is the ordered union of both header sets, commission first.
func AvailableFields(commissionHeaders, orderHeaders []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(commissionHeaders)+len(orderHeaders))
	for _, group := range [][]string{commissionHeaders, orderHeaders} {
		for _, h := range group {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}

// EntityFields lists the field names a joined entity can carry: the bare
// headers first, then the commission and order prefixed forms.
func EntityFields(commissionHeaders, orderHeaders []string) []string {
	out := AvailableFields(commissionHeaders, orderHeaders)
	for _, h := range commissionHeaders {
		out = append(out, internal.SourceCommission.Prefix()+h)
	}
	for _, h := range orderHeaders {
		out = append(out, internal.SourceOrder.Prefix()+h)
	}
	return out
}

// SeedMappings builds the initial mapping of every template field from the
// suggester over the entity field names. The source file is only pinned when
// a bare header exists in exactly one of the feeds; prefixed names already
// select their side.
func SeedMappings(s *Suggester, templates []internal.TemplateDefinition, commissionHeaders, orderHeaders []string, opts SeedOptions) internal.MappingSet {
	available := EntityFields(commissionHeaders, orderHeaders)
	inCommission := toSet(commissionHeaders)
	inOrder := toSet(orderHeaders)

	set := internal.MappingSet{}
	for _, tpl := range templates {
		tm := internal.TemplateMapping{}
		for _, f := range tpl.Fields() {
			suggestions := s.Suggest(f.Name, available)
			fm := internal.FieldMapping{Suggestions: suggestions}
			if len(suggestions) > 0 {
				top := suggestions[0]
				fm.SourceField = top.CandidateField
				fm.SourceFile = sourceOf(top.CandidateField, inCommission, inOrder)
				fm.Enabled = tpl.IsRequired(f.Name) || top.Confidence >= opts.EnableThreshold
			}
			tm[f.Name] = fm
		}
		set[tpl.Key] = tm
	}
	return set
}

// MergeMappings lays user edits over a seeded set. An edited field keeps the
// seeded suggestions when it carries none of its own.
func MergeMappings(seeded, edits internal.MappingSet) internal.MappingSet {
	out := seeded.Clone()
	for tpl, fields := range edits {
		if out[tpl] == nil {
			out[tpl] = internal.TemplateMapping{}
		}
		for name, fm := range fields {
			if len(fm.Suggestions) == 0 {
				fm.Suggestions = out[tpl][name].Suggestions
			}
			out[tpl][name] = fm
		}
	}
	return out
}

func sourceOf(header string, inCommission, inOrder map[string]struct{}) internal.SourceFile {
	_, c := inCommission[header]
	_, o := inOrder[header]
	switch {
	case c && !o:
		return internal.SourceCommission
	case o && !c:
		return internal.SourceOrder
	default:
		return internal.SourceUnset
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
