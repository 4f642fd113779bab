package catalog

import "feedjoin/internal"

// VendorProfile is the header signature of one upstream system. Money columns
// are only used for run statistics.
type VendorProfile struct {
	Tag               internal.VendorTag `yaml:"tag"`
	Name              string             `yaml:"name"`
	CommissionFields  []string           `yaml:"commission_fields"`
	OrderFields       []string           `yaml:"order_fields"`
	CommissionColumns []string           `yaml:"commission_columns,omitempty"`
	RevenueColumns    []string           `yaml:"revenue_columns,omitempty"`
}

func (p VendorProfile) ExpectedCount() int {
	return len(p.CommissionFields) + len(p.OrderFields)
}

// Synonym lists header substrings that usually carry the target field.
type Synonym struct {
	Target   string   `yaml:"target"`
	Patterns []string `yaml:"patterns"`
}

// KeyCandidate names the headers whose non-empty values, joined by a space,
// form one join-key part. Most candidates hold a single header.
type KeyCandidate []string

type JoinKeys struct {
	CommissionCustomer []KeyCandidate `yaml:"commission_customer"`
	CommissionAccount  []KeyCandidate `yaml:"commission_account"`
	OrderCustomer      []KeyCandidate `yaml:"order_customer"`
	OrderAccount       []KeyCandidate `yaml:"order_account"`
}

// Catalog is the read-only configuration shared by one process.
type Catalog struct {
	Vendors          []VendorProfile
	Synonyms         []Synonym
	JoinKeys         JoinKeys
	IgnoredCustomers []string
	Templates        []internal.TemplateDefinition
	// DefaultVendor supplies the money columns for statistics when no
	// vendor was detected.
	DefaultVendor internal.VendorTag

	index *Index
}

func Default() *Catalog {
	c := &Catalog{
		Vendors:          defaultVendors(),
		Synonyms:         defaultSynonyms(),
		JoinKeys:         defaultJoinKeys(),
		IgnoredCustomers: []string{"(adjustment)", "customer", "n/a"},
		Templates:        DefaultTemplates(),
		DefaultVendor:    "AVANT",
	}
	c.index = BuildIndex(c.Synonyms)
	return c
}

func (c *Catalog) Index() *Index {
	if c.index == nil {
		c.index = BuildIndex(c.Synonyms)
	}
	return c.index
}

func (c *Catalog) Vendor(tag internal.VendorTag) (VendorProfile, bool) {
	for _, v := range c.Vendors {
		if v.Tag == tag {
			return v, true
		}
	}
	return VendorProfile{}, false
}

// StatsProfile returns the profile whose money columns feed run statistics
// for tag, falling back to DefaultVendor.
func (c *Catalog) StatsProfile(tag internal.VendorTag) VendorProfile {
	if v, ok := c.Vendor(tag); ok {
		return v
	}
	v, _ := c.Vendor(c.DefaultVendor)
	return v
}

func (c *Catalog) VendorName(tag internal.VendorTag) string {
	if v, ok := c.Vendor(tag); ok {
		return v.Name
	}
	return "Generic System"
}

func (c *Catalog) Template(key string) (internal.TemplateDefinition, bool) {
	for _, t := range c.Templates {
		if t.Key == key {
			return t, true
		}
	}
	return internal.TemplateDefinition{}, false
}

func defaultVendors() []VendorProfile {
	return []VendorProfile{
		{
			Tag:               "WINDSTREAM",
			Name:              "Windstream",
			CommissionFields:  []string{"ACCOUNTNBR", "COMMDATE", "COMMISSION", "CUSTFNAME", "CUSTLNAME", "SALESID"},
			OrderFields:       []string{"Customer Name", "Account Number", "Service Status", "Seller Name"},
			CommissionColumns: []string{"COMMISSION"},
			RevenueColumns:    []string{"REVENUE"},
		},
		{
			Tag:               "APPDIRECT",
			Name:              "AppDirect",
			CommissionFields:  []string{"Commission Cycle", "Advisor ID", "Provider Name", "Comp Paid", "Sales Rep"},
			OrderFields:       []string{"Order ID", "Advisor Order #", "Provider", "Provider Customer Name"},
			CommissionColumns: []string{"Comp Paid"},
			RevenueColumns:    []string{"Revenue"},
		},
		{
			Tag:               "IBS",
			Name:              "IBS",
			CommissionFields:  []string{"Supplier", "Assignment code", "Net billed", "Sales comm.", "Customer"},
			OrderFields:       []string{"Number", "Rep Name", "Service Provider", "Customer Name"},
			CommissionColumns: []string{"Sales comm."},
			RevenueColumns:    []string{"Net billed", "MRC"},
		},
		{
			Tag:               "INTELISYS",
			Name:              "Intelisys",
			CommissionFields:  []string{"Line Item ID", "Commission Run", "RPM Order", "Sales Comm.", "Net Billed"},
			OrderFields:       []string{"RPM Order", "Order Status", "Supplier", "Total Estimated MRC"},
			CommissionColumns: []string{"Sales Comm."},
			RevenueColumns:    []string{"Net Billed", "Total Estimated MRC"},
		},
		{
			Tag:               "SANDLER",
			Name:              "Sandler/TopSpin",
			CommissionFields:  []string{"Agency", "Commission Method", "Provider Identifier", "Agent comm.", "Commission Type"},
			OrderFields:       []string{"Sandler Order #", "Contract MRC", "Contract Terms (Months)", "Contract Sign Date"},
			CommissionColumns: []string{"Agent comm."},
			RevenueColumns:    []string{"Net Billed", "Contract MRC"},
		},
		{
			Tag:               "AVANT",
			Name:              "Avant/RPM",
			CommissionFields:  []string{"Provider", "Rep", "Net Billed", "Sales Commission", "DISCONNECT DATE"},
			OrderFields:       []string{"Supplier", "Customer", "Product", "Install Date"},
			CommissionColumns: []string{"Sales Commission"},
			RevenueColumns:    []string{"Net Billed"},
		},
	}
}

func defaultSynonyms() []Synonym {
	return []Synonym{
		{Target: "customerid", Patterns: []string{"customer id", "cust id", "account", "acct"}},
		{Target: "customername", Patterns: []string{"customer", "cust", "company", "client"}},
		{Target: "accountnumber", Patterns: []string{"account", "acct"}},
		{Target: "rep", Patterns: []string{"rep", "sales", "agent", "seller", "advisor"}},
		{Target: "salesrep", Patterns: []string{"rep", "sales", "agent", "seller", "advisor"}},
		{Target: "commission", Patterns: []string{"comm", "comp paid", "payout"}},
		{Target: "mrc", Patterns: []string{"mrc", "monthly", "net billed", "revenue"}},
		{Target: "revenue", Patterns: []string{"revenue", "net billed", "billed", "mrc"}},
		{Target: "provider", Patterns: []string{"provider", "supplier", "vendor", "carrier"}},
		{Target: "orderid", Patterns: []string{"order", "number"}},
		{Target: "product", Patterns: []string{"product", "service"}},
		{Target: "status", Patterns: []string{"status"}},
		{Target: "installdate", Patterns: []string{"install", "activation"}},
		{Target: "contractid", Patterns: []string{"contract", "agreement", "order"}},
		{Target: "contractterm", Patterns: []string{"term", "months"}},
		{Target: "signdate", Patterns: []string{"sign", "signed"}},
		{Target: "locationname", Patterns: []string{"location", "site", "customer"}},
		{Target: "address", Patterns: []string{"address", "street"}},
		{Target: "city", Patterns: []string{"city"}},
		{Target: "state", Patterns: []string{"state"}},
		{Target: "zip", Patterns: []string{"zip", "postal"}},
		{Target: "phone", Patterns: []string{"phone", "tel"}},
		{Target: "email", Patterns: []string{"email", "mail"}},
	}
}

func defaultJoinKeys() JoinKeys {
	return JoinKeys{
		CommissionCustomer: []KeyCandidate{
			{"Customer"}, {"Customer Name"}, {"Provider Customer Name"}, {"CUSTFNAME", "CUSTLNAME"},
		},
		CommissionAccount: []KeyCandidate{
			{"Account"}, {"Account Number"}, {"ACCOUNTNBR"}, {"Acct #"}, {"Account #"}, {"Provider Account #"},
		},
		OrderCustomer: []KeyCandidate{
			{"Customer Name"}, {"Customer"}, {"Provider Customer Name"}, {"CUSTFNAME", "CUSTLNAME"},
		},
		OrderAccount: []KeyCandidate{
			{"Account"}, {"Account Number"}, {"ACCOUNTNBR"}, {"Number"}, {"Provider Account #"}, {"Sandler Order #"},
		},
	}
}
