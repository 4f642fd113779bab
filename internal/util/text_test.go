package util

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"CustomerID":      "customerid",
		"Customer ID":     "customerid",
		"customer_id":     "customerid",
		"Sales comm.":     "salescomm",
		"Advisor Order #": "advisororder",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Fatalf("NormalizeKey(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Acme  ":       "acme",
		"ACME   Widgets": "acme widgets",
		"Café Déjà Vu":   "cafe deja vu",
		"":               "",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q)=%q want %q", in, got, want)
		}
	}
}
