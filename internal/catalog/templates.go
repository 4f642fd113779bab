package catalog

import "feedjoin/internal"

func field(name, description string) internal.FieldSpec {
	return internal.FieldSpec{Name: name, Description: description}
}

// DefaultTemplates returns the curated output templates in display order.
func DefaultTemplates() []internal.TemplateDefinition {
	return []internal.TemplateDefinition{
		{
			Key:         "customer",
			Name:        "Customer Template",
			Description: "One row per customer account",
			Enabled:     true,
			RequiredFields: []internal.FieldSpec{
				field("CustomerID", "Account or customer identifier"),
				field("CustomerName", "Customer legal or billing name"),
			},
			OptionalFields: []internal.FieldSpec{
				field("Rep", "Sales rep or agent"),
				field("Provider", "Carrier or supplier"),
				field("Address", ""),
				field("City", ""),
				field("State", ""),
				field("Zip", ""),
				field("Phone", ""),
				field("Email", ""),
			},
		},
		{
			Key:         "location",
			Name:        "Location Template",
			Description: "Service locations",
			Enabled:     true,
			RequiredFields: []internal.FieldSpec{
				field("LocationName", "Site or customer name"),
				field("Address", "Street address"),
			},
			OptionalFields: []internal.FieldSpec{
				field("CustomerID", ""),
				field("City", ""),
				field("State", ""),
				field("Zip", ""),
			},
		},
		{
			Key:         "order",
			Name:        "Order Template",
			Description: "Orders placed with providers",
			Enabled:     true,
			RequiredFields: []internal.FieldSpec{
				field("OrderID", "Provider or agency order number"),
				field("CustomerName", ""),
			},
			OptionalFields: []internal.FieldSpec{
				field("Product", ""),
				field("Provider", ""),
				field("Status", "Order or service status"),
				field("InstallDate", ""),
				field("MRC", "Monthly recurring charge"),
				field("Rep", ""),
			},
		},
		{
			Key:         "contract",
			Name:        "Contract Template",
			Description: "Contract terms and compensation",
			Enabled:     true,
			RequiredFields: []internal.FieldSpec{
				field("ContractID", ""),
				field("CustomerName", ""),
			},
			OptionalFields: []internal.FieldSpec{
				field("ContractTerm", "Term in months"),
				field("SignDate", ""),
				field("MRC", ""),
				field("Commission", ""),
				field("Provider", ""),
				field("Rep", ""),
			},
		},
	}
}

// GenericTemplate lists every header of both files plus their prefixed forms
// as optional fields, with no curation.
func GenericTemplate(key, name string, commissionHeaders, orderHeaders []string) internal.TemplateDefinition {
	seen := map[string]struct{}{}
	var fields []internal.FieldSpec
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		fields = append(fields, internal.FieldSpec{Name: n})
	}
	for _, h := range commissionHeaders {
		add(h)
	}
	for _, h := range orderHeaders {
		add(h)
	}
	for _, h := range commissionHeaders {
		add(internal.SourceCommission.Prefix() + h)
	}
	for _, h := range orderHeaders {
		add(internal.SourceOrder.Prefix() + h)
	}
	return internal.TemplateDefinition{
		Key:            key,
		Name:           name,
		Description:    "All fields from both files",
		Enabled:        true,
		OptionalFields: fields,
	}
}
