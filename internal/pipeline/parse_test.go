package pipeline

import (
	"strings"
	"testing"
)

func TestParseTableQuotedComma(t *testing.T) {
	table := ParseTable("Customer,Account,Commission\n\"Acme, Inc.\",123,45.00\n")
	if len(table.Headers) != 3 {
		t.Fatalf("headers=%v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("len=%d", len(table.Rows))
	}
	row := table.Rows[0]
	if row.Len() != 3 {
		t.Fatalf("fields=%d", row.Len())
	}
	want := map[string]string{"Customer": "Acme, Inc.", "Account": "123", "Commission": "45.00"}
	for k, v := range want {
		if got := row.Value(k); got != v {
			t.Fatalf("%s=%q want %q", k, got, v)
		}
	}
	if len(table.Warnings) != 0 {
		t.Fatalf("warnings=%v", table.Warnings)
	}
}

func TestParseTableDropsBlankLines(t *testing.T) {
	text := "Customer,Account\r\n\r\nAcme,1\r\n   \r\nGlobex,2\r\n\r\n"
	table := ParseTable(text)
	if len(table.Rows) != 2 {
		t.Fatalf("len=%d", len(table.Rows))
	}
	if table.Rows[1].Value("Customer") != "Globex" {
		t.Fatalf("row=%v", table.Rows[1].Map())
	}
}

func TestParseTableMalformedRows(t *testing.T) {
	table := ParseTable("A,B,C\n1\n1,2,3,4\n\"open,5,6\n")
	if len(table.Rows) != 3 {
		t.Fatalf("len=%d", len(table.Rows))
	}
	short := table.Rows[0]
	if short.Value("A") != "1" || short.Value("B") != "" || short.Value("C") != "" {
		t.Fatalf("short row=%v", short.Map())
	}
	long := table.Rows[1]
	if long.Value("C") != "3" || long.Len() != 3 {
		t.Fatalf("long row=%v", long.Map())
	}
	// The unbalanced quote swallows the remaining separators.
	if got := table.Rows[2].Value("A"); got != "open,5,6" {
		t.Fatalf("unbalanced row A=%q", got)
	}

	var msgs []string
	for _, w := range table.Warnings {
		msgs = append(msgs, w.Message)
	}
	joined := strings.Join(msgs, "|")
	for _, want := range []string{"unbalanced quotes", "padding", "extra fields dropped"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing warning %q in %v", want, msgs)
		}
	}
}

func TestParseTableEmpty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "  \r\n\t\n"} {
		table := ParseTable(text)
		if len(table.Headers) != 0 || len(table.Rows) != 0 {
			t.Fatalf("text=%q headers=%v rows=%d", text, table.Headers, len(table.Rows))
		}
	}
}

func TestParseTableHeaderOnly(t *testing.T) {
	table := ParseTable("Customer,Account\n")
	if len(table.Headers) != 2 || len(table.Rows) != 0 {
		t.Fatalf("headers=%v rows=%d", table.Headers, len(table.Rows))
	}
}

func TestParseTableDuplicateHeaders(t *testing.T) {
	table := ParseTable("Name,Name,,Name_2\nA,B,C,D\n")
	want := []string{"Name", "Name_2", "Column 3", "Name_2_2"}
	if strings.Join(table.Headers, ",") != strings.Join(want, ",") {
		t.Fatalf("headers=%v", table.Headers)
	}
	if table.Rows[0].Value("Name_2") != "B" || table.Rows[0].Value("Name_2_2") != "D" {
		t.Fatalf("row=%v", table.Rows[0].Map())
	}
}
