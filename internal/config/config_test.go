package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "")
	t.Setenv("SUGGEST_LIMIT", "")
	t.Setenv("FILTER_ANONYMOUS", "")
	t.Setenv("GENERIC_TEMPLATE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFormat != "csv" {
		t.Fatalf("format=%q", cfg.OutputFormat)
	}
	if cfg.SuggestLimit != 3 {
		t.Fatalf("limit=%d", cfg.SuggestLimit)
	}
	if !cfg.FilterAnonymous {
		t.Fatalf("filter anonymous should default to true")
	}
	if cfg.GenericTemplate {
		t.Fatalf("generic template should be opt-in")
	}
	if cfg.DetectMinScore != 0.5 || cfg.DetectMinMatches != 2 {
		t.Fatalf("detect thresholds=%v/%d", cfg.DetectMinScore, cfg.DetectMinMatches)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "XLSX")
	t.Setenv("FILTER_ANONYMOUS", "off")
	t.Setenv("SUGGEST_LIMIT", "5")
	t.Setenv("DETECT_MIN_SCORE", "0.75")
	t.Setenv("GENERIC_TEMPLATE", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFormat != "xlsx" || cfg.FilterAnonymous || cfg.SuggestLimit != 5 || cfg.DetectMinScore != 0.75 || !cfg.GenericTemplate {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "parquet")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadMailSettings(t *testing.T) {
	t.Setenv("IMAP_HOST", "imap.example.com")
	t.Setenv("IMAP_PORT", "143")
	t.Setenv("IMAP_SECURE", "false")
	t.Setenv("IMAP_USER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IMAPHost != "imap.example.com" || cfg.IMAPPort != 143 || cfg.IMAPSecure {
		t.Fatalf("unexpected imap config: %+v", cfg)
	}
	if err := cfg.Require("IMAP_USER", cfg.IMAPUser); err == nil {
		t.Fatal("expected missing IMAP_USER error")
	}
}
