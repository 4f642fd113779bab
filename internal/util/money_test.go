package util

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "45.00", want: 45},
		{name: "dollar with thousands", input: "$1,234.50", want: 1234.5},
		{name: "accounting negative", input: "($12.10)", want: -12.1},
		{name: "thousands only", input: "1,000", want: 1000},
		{name: "european", input: "1.234,50", want: 1234.5},
		{name: "decimal comma", input: "12,5", want: 12.5},
		{name: "minus sign", input: "-$3.25", want: -3.25},
		{name: "symbol outside parentheses", input: "$(45.00)", want: -45},
		{name: "spaced parentheses", input: "( $1,200.00 )", want: -1200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseMoney(tc.input)
			if !ok {
				t.Fatalf("not parsed: %q", tc.input)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseMoneyRejectsText(t *testing.T) {
	for _, input := range []string{"", "n/a", "$", "(", "()", "$()"} {
		if _, ok := ParseMoney(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}
