package pipeline

import "feedjoin/internal"

// Project renders one output row per entity, in entity order. A target field
// whose mapping is missing, disabled or has no source column is always empty.
func Project(entities *EntitySet, tpl internal.TemplateDefinition, mapping internal.TemplateMapping) internal.Projection {
	fields := tpl.Fields()
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, f.Name)
	}

	rows := make([]internal.OutputRow, 0, entities.Len())
	for _, e := range entities.Entities() {
		out := make(internal.OutputRow, len(columns))
		for _, col := range columns {
			out[col] = resolveField(e.Combined, mapping[col])
		}
		rows = append(rows, out)
	}

	return internal.Projection{Template: tpl, Columns: columns, Rows: rows}
}

// ProjectAll projects every enabled template. Templates without a mapping
// still produce rows of empty values.
func ProjectAll(entities *EntitySet, templates []internal.TemplateDefinition, mappings internal.MappingSet) []internal.Projection {
	out := make([]internal.Projection, 0, len(templates))
	for _, tpl := range templates {
		if !tpl.Enabled {
			continue
		}
		out = append(out, Project(entities, tpl, mappings[tpl.Key]))
	}
	return out
}

func resolveField(combined map[string]string, fm internal.FieldMapping) string {
	if !fm.Enabled || fm.SourceField == "" {
		return ""
	}
	if prefix := fm.SourceFile.Prefix(); prefix != "" {
		if v, ok := combined[prefix+fm.SourceField]; ok {
			return v
		}
	}
	return combined[fm.SourceField]
}
