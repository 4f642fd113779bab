package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
)

func testTemplate() internal.TemplateDefinition {
	return internal.TemplateDefinition{
		Key:     "customer",
		Name:    "Customer Template",
		Enabled: true,
		RequiredFields: []internal.FieldSpec{
			{Name: "CustomerID"},
			{Name: "CustomerName"},
		},
		OptionalFields: []internal.FieldSpec{
			{Name: "Revenue"},
			{Name: "Product"},
			{Name: "CustomerID"},
		},
	}
}

func TestProjectResolvesPrefixThenBare(t *testing.T) {
	set, _ := join(t,
		"Customer,Account,Revenue\nAcme,1,100\n",
		"Customer,Account,Revenue,Product\nAcme,1,200,Widget\n",
	)
	mapping := internal.TemplateMapping{
		"CustomerID":   {SourceField: "Account", SourceFile: internal.SourceCommission, Enabled: true},
		"CustomerName": {SourceField: "Customer", Enabled: true},
		"Revenue":      {SourceField: "Revenue", SourceFile: internal.SourceOrder, Enabled: true},
		"Product":      {SourceField: "Product", SourceFile: internal.SourceCommission, Enabled: true},
	}

	p := Project(set, testTemplate(), mapping)
	assert.Equal(t, []string{"CustomerID", "CustomerName", "Revenue", "Product"}, p.Columns)
	require.Len(t, p.Rows, 1)
	// No commission_Product exists, so Product falls back to the bare value.
	assert.Equal(t, internal.OutputRow{
		"CustomerID":   "1",
		"CustomerName": "Acme",
		"Revenue":      "200",
		"Product":      "Widget",
	}, p.Rows[0])
}

func TestProjectDisabledMappingIsEmpty(t *testing.T) {
	set, _ := join(t, "Customer,Account,Revenue\nAcme,1,100\n", "")
	mapping := internal.TemplateMapping{
		"CustomerID":   {SourceField: "Account", SourceFile: internal.SourceCommission, Enabled: false},
		"CustomerName": {SourceField: "", Enabled: true},
		"Revenue":      {SourceField: "Missing", Enabled: true},
	}

	p := Project(set, testTemplate(), mapping)
	require.Len(t, p.Rows, 1)
	for _, col := range p.Columns {
		assert.Equal(t, "", p.Rows[0][col], col)
		assert.Contains(t, p.Rows[0], col)
	}
}

func TestProjectOneRowPerEntityInOrder(t *testing.T) {
	set, _ := join(t,
		"Customer,Account\nGlobex,2\nAcme,1\nGlobex,2\n",
		"Customer Name,Account Number\nInitech,3\n",
	)
	mapping := internal.TemplateMapping{"CustomerName": {SourceField: "Customer", Enabled: true}}
	p := Project(set, testTemplate(), mapping)

	var names []string
	for _, row := range p.Rows {
		names = append(names, row["CustomerName"])
	}
	// The order-only entity has no bare Customer column.
	assert.Equal(t, []string{"Globex", "Acme", ""}, names)
}

func TestProjectAllSkipsDisabledTemplates(t *testing.T) {
	set, _ := join(t, "Customer,Account\nAcme,1\n", "")
	templates := catalog.DefaultTemplates()
	templates[1].Enabled = false

	out := ProjectAll(set, templates, internal.MappingSet{})
	require.Len(t, out, 3)
	assert.Equal(t, "customer", out[0].Template.Key)
	assert.Equal(t, "order", out[1].Template.Key)
	assert.Equal(t, "contract", out[2].Template.Key)
	for _, p := range out {
		assert.Len(t, p.Rows, 1)
	}
}

func TestProjectGenericTemplate(t *testing.T) {
	commission := ParseTable("Customer,Account,Revenue\nAcme,1,100\n")
	order := ParseTable("Customer,Account,Revenue\nAcme,1,200\n")
	set, _ := Join(commission.Rows, order.Rows, catalog.Default().JoinKeys)

	tpl := catalog.GenericTemplate("all", "All Fields", commission.Headers, order.Headers)
	mapping := internal.TemplateMapping{}
	for _, f := range tpl.Fields() {
		mapping[f.Name] = internal.FieldMapping{SourceField: f.Name, Enabled: true}
	}

	p := Project(set, tpl, mapping)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "100", p.Rows[0]["Revenue"])
	assert.Equal(t, "100", p.Rows[0]["commission_Revenue"])
	assert.Equal(t, "200", p.Rows[0]["order_Revenue"])
}
