package internal

import "testing"

func TestNewRowPadsAndTruncates(t *testing.T) {
	r := NewRow([]string{"A", "B", "C"}, []string{"1"})
	if r.Len() != 3 || r.Value("C") != "" {
		t.Fatalf("row=%v", r.Map())
	}
	if _, ok := r.Get("C"); !ok {
		t.Fatal("padded header should be present")
	}

	r = NewRow([]string{"A"}, []string{"1", "2"})
	if len(r.Map()) != 1 || r.Value("A") != "1" {
		t.Fatalf("row=%v", r.Map())
	}

	headers := r.Headers()
	headers[0] = "changed"
	if r.Headers()[0] != "A" {
		t.Fatal("Headers must return a copy")
	}
}

func TestTemplateFields(t *testing.T) {
	tpl := TemplateDefinition{
		RequiredFields: []FieldSpec{{Name: "ID"}, {Name: "Name"}},
		OptionalFields: []FieldSpec{{Name: "Name"}, {Name: "Zip"}},
	}
	fields := tpl.Fields()
	if len(fields) != 3 || fields[2].Name != "Zip" {
		t.Fatalf("fields=%v", fields)
	}
	if !tpl.IsRequired("Name") || tpl.IsRequired("Zip") {
		t.Fatal("required flags")
	}
}

func TestMappingSetEdits(t *testing.T) {
	m := MappingSet{}
	m.Set("customer", "CustomerID", "Account", SourceCommission)

	fm, ok := m.Get("customer", "CustomerID")
	if !ok || !fm.Enabled || fm.SourceField != "Account" || fm.SourceFile != SourceCommission {
		t.Fatalf("mapping=%+v", fm)
	}

	if !m.Disable("customer", "CustomerID") {
		t.Fatal("disable existing field")
	}
	if fm, _ := m.Get("customer", "CustomerID"); fm.Enabled || fm.SourceField != "Account" {
		t.Fatalf("disabled mapping=%+v", fm)
	}
	if m.Enable("customer", "Missing") {
		t.Fatal("enable should report missing field")
	}

	clone := m.Clone()
	clone.Set("customer", "CustomerID", "Customer", SourceUnset)
	if fm, _ := m.Get("customer", "CustomerID"); fm.SourceField != "Account" {
		t.Fatal("clone edits leaked into the original")
	}
}

func TestSourceFilePrefix(t *testing.T) {
	cases := map[SourceFile]string{
		SourceCommission: "commission_",
		SourceOrder:      "order_",
		SourceUnset:      "",
	}
	for sf, want := range cases {
		if got := sf.Prefix(); got != want {
			t.Fatalf("%q prefix=%q", sf, got)
		}
	}
}
