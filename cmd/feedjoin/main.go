package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
	"feedjoin/internal/config"
	"feedjoin/internal/connectors"
	gmailconnector "feedjoin/internal/connectors/gmail"
	imapconnector "feedjoin/internal/connectors/imap"
	"feedjoin/internal/pipeline"
	"feedjoin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cat, err := loadCatalog(cfg)
	must(err)

	cmd := os.Args[1]
	switch cmd {
	case "detect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		commission, order := feedFlags(fs)
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--commissions", commission.Path))
		must(cfg.Require("--orders", order.Path))

		commissionTable, orderTable := loadFeeds(*commission, *order)
		det := pipeline.DetectVendor(cat.Vendors, commissionTable.Headers, orderTable.Headers, pipeline.DetectOptions{
			MinScore:   cfg.DetectMinScore,
			MinMatches: cfg.DetectMinMatches,
		})
		for _, c := range det.Candidates {
			fmt.Printf("  %-10s commission=%d order=%d score=%.2f qualified=%t\n", c.Vendor, c.CommissionMatches, c.OrderMatches, c.Score, c.Qualified)
		}
		fmt.Printf("detected vendor=%s name=%q score=%.2f\n", det.Vendor, det.Name, det.Score)
	case "suggest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		commission, order := feedFlags(fs)
		out := fs.String("out", "mapping.yaml", "mapping file to write")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--commissions", commission.Path))
		must(cfg.Require("--orders", order.Path))

		commissionTable, orderTable := loadFeeds(*commission, *order)
		det := pipeline.DetectVendor(cat.Vendors, commissionTable.Headers, orderTable.Headers, pipeline.DetectOptions{
			MinScore:   cfg.DetectMinScore,
			MinMatches: cfg.DetectMinMatches,
		})
		suggester := pipeline.NewSuggester(cat.Index(), cfg.SuggestLimit)
		mappings := pipeline.SeedMappings(suggester, cat.Templates, commissionTable.Headers, orderTable.Headers, pipeline.SeedOptions{
			EnableThreshold: cfg.SuggestEnableThreshold,
		})
		must(catalog.WriteMappingFile(&catalog.MappingFile{Vendor: det.Vendor, Mappings: mappings}, *out))
		fmt.Printf("suggested mappings vendor=%s templates=%d output=%s\n", det.Vendor, len(mappings), *out)
	case "map":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("mapping", "mapping.yaml", "mapping file to edit")
		template := fs.String("template", "", "template key")
		field := fs.String("field", "", "target field")
		source := fs.String("source", "", "source column")
		from := fs.String("from", "", "commission|order, empty for either")
		disable := fs.Bool("disable", false, "disable the field instead")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--template", *template))
		must(cfg.Require("--field", *field))

		mf, err := catalog.LoadMappingFile(*path)
		must(err)
		switch {
		case *disable:
			if !mf.Mappings.Disable(*template, *field) {
				must(fmt.Errorf("no mapping for %s.%s", *template, *field))
			}
		default:
			must(cfg.Require("--source", *source))
			sf, err := parseSourceFile(*from)
			must(err)
			mf.Mappings.Set(*template, *field, *source, sf)
		}
		must(catalog.WriteMappingFile(mf, *path))
		fm, _ := mf.Mappings.Get(*template, *field)
		fmt.Printf("mapping %s.%s source=%q file=%q enabled=%t\n", *template, *field, fm.SourceField, fm.SourceFile, fm.Enabled)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		commission, order := feedFlags(fs)
		mappingPath := fs.String("mapping", "", "edited mapping file")
		format := fs.String("format", cfg.OutputFormat, "csv|xlsx|sqlite")
		out := fs.String("out", cfg.OutputDir, "output directory")
		allFields := fs.Bool("all-fields", cfg.GenericTemplate, "also export every field of both feeds")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--commissions", commission.Path))
		must(cfg.Require("--orders", order.Path))
		cfg.GenericTemplate = *allFields

		var mappings internal.MappingSet
		if strings.TrimSpace(*mappingPath) != "" {
			mf, err := catalog.LoadMappingFile(*mappingPath)
			must(err)
			mappings = mf.Mappings
		}

		processor := pipeline.NewProcessingService(cat, cfg)
		res, err := processor.ProcessFiles(*commission, *order, mappings)
		must(err)
		for _, entry := range res.Log {
			fmt.Printf("[%s] %s\n", entry.Level, entry.Message)
		}
		for _, w := range res.Warnings {
			fmt.Printf("[warn] %s\n", w)
		}

		var db *storage.DB
		if strings.ToLower(*format) == "sqlite" {
			db, err = storage.Open(cfg.DBPath)
			must(err)
			defer db.Close()
		}
		paths, err := pipeline.ExportAll(res, *out, strings.ToLower(*format), db)
		must(err)
		for _, p := range paths {
			fmt.Printf("wrote %s\n", p)
		}
		fmt.Printf("run done trace=%s entities=%d linked=%d commission=%.2f revenue=%.2f\n",
			res.TraceID, res.Join.Entities, res.Join.Linked, res.Stats.TotalCommission, res.Stats.TotalRevenue)
	case "fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "imap", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		maxMessages := fs.Int("max", 50, "max messages")
		days := fs.Int("days", 0, "only messages from the last N days, 0 for all")
		_ = fs.Parse(os.Args[2:])

		mailbox, err := makeMailbox(cfg, *provider)
		must(err)
		q := connectors.Query{Label: *label, Max: *maxMessages}
		if *days > 0 {
			q.Since = time.Now().AddDate(0, 0, -*days)
		}
		res, err := connectors.NewInbox(cfg.InboxDir, mailbox).Collect(q)
		must(err)
		for _, f := range res.Stored {
			fmt.Printf("  %s %q attachments=%s\n", f.Path, f.Subject, strings.Join(f.Attachments, ","))
		}
		fmt.Printf("fetch done provider=%s fetched=%d stored=%d skipped=%d\n", *provider, res.Fetched, len(res.Stored), res.Skipped)
	case "stored":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		template := fs.String("template", "customer", "template key")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.CountRuns()
		must(err)
		rows, err := db.GetOutputRows(*template)
		must(err)
		for i, row := range rows {
			fmt.Printf("  %d %v\n", i+1, row)
		}
		fmt.Printf("stored db=%s runs=%d template=%s rows=%d\n", cfg.DBPath, runs, *template, len(rows))
	case "templates":
		for _, t := range cat.Templates {
			fmt.Printf("%s (%s) enabled=%t\n", t.Key, t.Name, t.Enabled)
			for _, f := range t.Fields() {
				marker := " "
				if t.IsRequired(f.Name) {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, f.Name)
			}
		}
	default:
		usage()
		os.Exit(1)
	}
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if strings.TrimSpace(cfg.CatalogPath) == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

func makeMailbox(cfg config.Config, provider string) (connectors.Mailbox, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(context.Background(), cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func feedFlags(fs *flag.FlagSet) (*pipeline.FeedFile, *pipeline.FeedFile) {
	commission := &pipeline.FeedFile{}
	order := &pipeline.FeedFile{}
	fs.StringVar(&commission.Path, "commissions", "", "commission feed path")
	fs.StringVar(&commission.Type, "commission-type", "", "csv|text|xlsx|html|eml, empty to use the extension")
	fs.StringVar(&order.Path, "orders", "", "order feed path")
	fs.StringVar(&order.Type, "order-type", "", "csv|text|xlsx|html|eml, empty to use the extension")
	return commission, order
}

func loadFeeds(commission, order pipeline.FeedFile) (internal.Table, internal.Table) {
	commissionTable, err := commission.Load()
	must(err)
	orderTable, err := order.Load()
	must(err)
	return commissionTable, orderTable
}

func parseSourceFile(value string) (internal.SourceFile, error) {
	switch internal.SourceFile(strings.ToLower(strings.TrimSpace(value))) {
	case internal.SourceUnset:
		return internal.SourceUnset, nil
	case internal.SourceCommission:
		return internal.SourceCommission, nil
	case internal.SourceOrder:
		return internal.SourceOrder, nil
	default:
		return "", fmt.Errorf("unsupported source file: %s", value)
	}
}

func usage() {
	fmt.Println("usage: feedjoin <command>")
	fmt.Println("commands:")
	fmt.Println("  detect --commissions=... --orders=... [--commission-type=csv] [--order-type=xlsx]")
	fmt.Println("  suggest --commissions=... --orders=... [--out=mapping.yaml]")
	fmt.Println("  map --mapping=mapping.yaml --template=customer --field=CustomerID --source=Account [--from=commission] [--disable]")
	fmt.Println("  run --commissions=... --orders=... [--mapping=mapping.yaml] [--format=csv|xlsx|sqlite] [--out=./out] [--all-fields]")
	fmt.Println("  fetch --provider=gmail|imap [--label=INBOX] [--max=50] [--days=0]")
	fmt.Println("  stored [--template=customer]")
	fmt.Println("  templates")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
