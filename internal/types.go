package internal

type SourceFile string

const (
	SourceUnset      SourceFile = ""
	SourceCommission SourceFile = "commission"
	SourceOrder      SourceFile = "order"
)

// Prefix returns the CombinedFields prefix for the source, or "" when unset.
func (s SourceFile) Prefix() string {
	switch s {
	case SourceCommission:
		return "commission_"
	case SourceOrder:
		return "order_"
	default:
		return ""
	}
}

type VendorTag string

const VendorGeneric VendorTag = "GENERIC"

// Row is one parsed record. Values are keyed by header and keep the header order
// of the file they came from. Rows are never mutated after construction.
type Row struct {
	headers []string
	values  map[string]string
}

// NewRow pairs values with headers positionally. Missing trailing values are empty
// strings and surplus values are ignored.
func NewRow(headers, values []string) Row {
	r := Row{headers: make([]string, len(headers)), values: make(map[string]string, len(headers))}
	copy(r.headers, headers)
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.values[h] = v
	}
	return r
}

func (r Row) Get(header string) (string, bool) {
	v, ok := r.values[header]
	return v, ok
}

func (r Row) Value(header string) string {
	return r.values[header]
}

func (r Row) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

func (r Row) Len() int {
	return len(r.headers)
}

func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

type ParseWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Table is a HeaderSet plus its rows.
type Table struct {
	Headers  []string
	Rows     []Row
	Warnings []ParseWarning
}

type FieldSpec struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type TemplateDefinition struct {
	Key            string      `yaml:"key" json:"key"`
	Name           string      `yaml:"name" json:"name"`
	Description    string      `yaml:"description,omitempty" json:"description,omitempty"`
	Enabled        bool        `yaml:"enabled" json:"enabled"`
	RequiredFields []FieldSpec `yaml:"required,omitempty" json:"required,omitempty"`
	OptionalFields []FieldSpec `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Fields returns required fields followed by optional ones. A name listed twice
// is kept at its first position.
func (t TemplateDefinition) Fields() []FieldSpec {
	seen := map[string]struct{}{}
	out := make([]FieldSpec, 0, len(t.RequiredFields)+len(t.OptionalFields))
	for _, group := range [][]FieldSpec{t.RequiredFields, t.OptionalFields} {
		for _, f := range group {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func (t TemplateDefinition) IsRequired(field string) bool {
	for _, f := range t.RequiredFields {
		if f.Name == field {
			return true
		}
	}
	return false
}

type Suggestion struct {
	CandidateField string `yaml:"candidate" json:"candidate"`
	Confidence     int    `yaml:"confidence" json:"confidence"`
	Reason         string `yaml:"reason" json:"reason"`
}

type FieldMapping struct {
	SourceField string       `yaml:"source_field" json:"sourceField"`
	SourceFile  SourceFile   `yaml:"source_file,omitempty" json:"sourceFile,omitempty"`
	Enabled     bool         `yaml:"enabled" json:"enabled"`
	Suggestions []Suggestion `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// TemplateMapping maps target field name to its mapping.
type TemplateMapping map[string]FieldMapping

// MappingSet maps template key to the mapping of its fields.
type MappingSet map[string]TemplateMapping

func (m MappingSet) Get(template, field string) (FieldMapping, bool) {
	fm, ok := m[template][field]
	return fm, ok
}

// Set replaces the source of one target field and enables it. Suggestions
// already seeded for the field are kept.
func (m MappingSet) Set(template, field, sourceField string, sourceFile SourceFile) {
	if m[template] == nil {
		m[template] = TemplateMapping{}
	}
	fm := m[template][field]
	fm.SourceField = sourceField
	fm.SourceFile = sourceFile
	fm.Enabled = sourceField != ""
	m[template][field] = fm
}

func (m MappingSet) Enable(template, field string) bool {
	return m.setEnabled(template, field, true)
}

func (m MappingSet) Disable(template, field string) bool {
	return m.setEnabled(template, field, false)
}

func (m MappingSet) setEnabled(template, field string, enabled bool) bool {
	fm, ok := m[template][field]
	if !ok {
		return false
	}
	fm.Enabled = enabled
	m[template][field] = fm
	return true
}

// Clone copies the set deeply enough that edits to the copy never reach m.
func (m MappingSet) Clone() MappingSet {
	out := make(MappingSet, len(m))
	for tpl, fields := range m {
		tm := make(TemplateMapping, len(fields))
		for name, fm := range fields {
			fm.Suggestions = append([]Suggestion(nil), fm.Suggestions...)
			tm[name] = fm
		}
		out[tpl] = tm
	}
	return out
}

type FieldConflict struct {
	Field           string `json:"field"`
	CommissionValue string `json:"commissionValue"`
	OrderValue      string `json:"orderValue"`
	Resolution      string `json:"resolution"`
}

// Entity is every commission and order row sharing one join key.
type Entity struct {
	Key            string
	Customer       string
	Account        string
	CommissionRows []Row
	OrderRows      []Row
	Combined       map[string]string
	Conflicts      []FieldConflict
}

func (e *Entity) Linked() bool {
	return len(e.CommissionRows) > 0 && len(e.OrderRows) > 0
}

type OutputRow map[string]string

type Projection struct {
	Template TemplateDefinition
	Columns  []string
	Rows     []OutputRow
}

type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarn    LogLevel = "warn"
	LogError   LogLevel = "error"
)

type LogEntry struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}
