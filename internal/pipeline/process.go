package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
	"feedjoin/internal/config"
	"feedjoin/internal/util"
)

var ErrRunInProgress = errors.New("a processing run is already in progress")

// GenericTemplateKey is the template key of the flat "all fields" output.
const GenericTemplateKey = "all"

type ProcessingService struct {
	cfg     config.Config
	catalog *catalog.Catalog
	mu      sync.Mutex
}

func NewProcessingService(cat *catalog.Catalog, cfg config.Config) *ProcessingService {
	if cat == nil {
		cat = catalog.Default()
	}
	return &ProcessingService{cfg: cfg, catalog: cat}
}

func (s *ProcessingService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Input is one run: both feeds already loaded. Mappings, when set, are laid
// over the seeded ones. Templates, when set, replace the catalog templates.
type Input struct {
	CommissionName string
	Commission     internal.Table
	OrderName      string
	Order          internal.Table
	Mappings       internal.MappingSet
	Templates      []internal.TemplateDefinition
}

type Stats struct {
	CommissionRecords int     `json:"commissionRecords"`
	OrderRecords      int     `json:"orderRecords"`
	ValidCommissions  int     `json:"validCommissions"`
	ValidOrders       int     `json:"validOrders"`
	Entities          int     `json:"entities"`
	TotalCommission   float64 `json:"totalCommission"`
	TotalRevenue      float64 `json:"totalRevenue"`
	CommissionFields  int     `json:"commissionFields"`
	OrderFields       int     `json:"orderFields"`
}

type RunResult struct {
	TraceID           string
	Detection         Detection
	CommissionHeaders []string
	OrderHeaders      []string
	Entities          *EntitySet
	Join              JoinStats
	Mappings          internal.MappingSet
	Templates         []internal.TemplateDefinition
	Projections       []internal.Projection
	Stats             Stats
	Warnings          []string
	Log               []internal.LogEntry
	Duration          time.Duration
}

func (r *RunResult) Projection(template string) (internal.Projection, bool) {
	for _, p := range r.Projections {
		if p.Template.Key == template {
			return p, true
		}
	}
	return internal.Projection{}, false
}

func (r *RunResult) Timings() map[string]float64 {
	return map[string]float64{"totalMs": float64(r.Duration.Milliseconds())}
}

func (r *RunResult) Counts() map[string]int {
	return map[string]int{
		"commissionRecords": r.Stats.CommissionRecords,
		"orderRecords":      r.Stats.OrderRecords,
		"entities":          r.Join.Entities,
		"linked":            r.Join.Linked,
		"unmatched":         r.Join.Unmatched(),
		"conflicts":         r.Join.Conflicts,
		"templates":         len(r.Projections),
	}
}

func (r *RunResult) logf(level internal.LogLevel, format string, args ...any) {
	r.Log = append(r.Log, internal.LogEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// ProcessFiles loads both feeds from disk and runs them.
func (s *ProcessingService) ProcessFiles(commission, order FeedFile, mappings internal.MappingSet) (*RunResult, error) {
	commissionTable, err := commission.Load()
	if err != nil {
		return nil, fmt.Errorf("load commission feed: %w", err)
	}
	orderTable, err := order.Load()
	if err != nil {
		return nil, fmt.Errorf("load order feed: %w", err)
	}
	return s.Process(Input{
		CommissionName: filepath.Base(commission.Path),
		Commission:     commissionTable,
		OrderName:      filepath.Base(order.Path),
		Order:          orderTable,
		Mappings:       mappings,
	})
}

// Process runs detect, filter, join, seed and project over one pair of
// feeds. Only one run is in flight at a time; a failed run returns no result.
func (s *ProcessingService) Process(in Input) (*RunResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	start := time.Now()
	res := &RunResult{
		TraceID:           uuid.NewString(),
		CommissionHeaders: in.Commission.Headers,
		OrderHeaders:      in.Order.Headers,
	}
	res.logf(internal.LogInfo, "run %s started", res.TraceID)
	res.logf(internal.LogInfo, "commission feed %s: %d records, %d fields", displayName(in.CommissionName), len(in.Commission.Rows), len(in.Commission.Headers))
	res.logf(internal.LogInfo, "order feed %s: %d records, %d fields", displayName(in.OrderName), len(in.Order.Rows), len(in.Order.Headers))
	for _, w := range in.Commission.Warnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("commission line %d: %s", w.Line, w.Message))
	}
	for _, w := range in.Order.Warnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("order line %d: %s", w.Line, w.Message))
	}
	if len(res.Warnings) > 0 {
		res.logf(internal.LogWarn, "%d parse warnings", len(res.Warnings))
	}

	res.Detection = DetectVendor(s.catalog.Vendors, in.Commission.Headers, in.Order.Headers, DetectOptions{
		MinScore:   s.cfg.DetectMinScore,
		MinMatches: s.cfg.DetectMinMatches,
	})
	if res.Detection.Vendor == internal.VendorGeneric {
		res.logf(internal.LogWarn, "no vendor signature matched, using generic processing")
	} else {
		res.logf(internal.LogSuccess, "detected %s (score %.2f)", res.Detection.Name, res.Detection.Score)
	}

	commissionRows := in.Commission.Rows
	orderRows := in.Order.Rows
	if s.cfg.FilterAnonymous {
		var dropped int
		keys := s.catalog.JoinKeys
		commissionRows, dropped = FilterRows(commissionRows, keys.CommissionCustomer, s.catalog.IgnoredCustomers)
		if dropped > 0 {
			res.logf(internal.LogInfo, "skipped %d commission records without a customer", dropped)
		}
		orderRows, dropped = FilterRows(orderRows, keys.OrderCustomer, s.catalog.IgnoredCustomers)
		if dropped > 0 {
			res.logf(internal.LogInfo, "skipped %d order records without a customer", dropped)
		}
	}

	res.Entities, res.Join = Join(commissionRows, orderRows, s.catalog.JoinKeys)
	res.logf(internal.LogSuccess, "joined %d entities, %d linked", res.Join.Entities, res.Join.Linked)
	if n := res.Join.Unmatched(); n > 0 {
		res.logf(internal.LogWarn, "%d entities have records from one feed only (%d commission, %d order)", n, res.Join.CommissionOnly, res.Join.OrderOnly)
	}
	if res.Join.Conflicts > 0 {
		res.logf(internal.LogWarn, "%d field conflicts resolved in favour of commission data", res.Join.Conflicts)
	}

	res.Templates = s.templates(in)
	suggester := NewSuggester(s.catalog.Index(), s.cfg.SuggestLimit)
	seeded := SeedMappings(suggester, res.Templates, in.Commission.Headers, in.Order.Headers, SeedOptions{EnableThreshold: s.cfg.SuggestEnableThreshold})
	res.Mappings = MergeMappings(seeded, in.Mappings)

	res.Projections = ProjectAll(res.Entities, res.Templates, res.Mappings)
	for _, p := range res.Projections {
		res.logf(internal.LogInfo, "%s: %d rows", p.Template.Name, len(p.Rows))
	}

	res.Stats = s.stats(res.Detection.Vendor, in, commissionRows, orderRows, res.Join)
	res.Duration = time.Since(start)
	res.logf(internal.LogSuccess, "run %s finished in %s", res.TraceID, res.Duration.Round(time.Millisecond))
	return res, nil
}

// templates returns the run's templates, plus the flat template over both
// header sets when configured.
func (s *ProcessingService) templates(in Input) []internal.TemplateDefinition {
	base := in.Templates
	if len(base) == 0 {
		base = s.catalog.Templates
	}
	out := append([]internal.TemplateDefinition(nil), base...)
	if s.cfg.GenericTemplate {
		out = append(out, catalog.GenericTemplate(GenericTemplateKey, "All Fields", in.Commission.Headers, in.Order.Headers))
	}
	return out
}

func (s *ProcessingService) stats(vendor internal.VendorTag, in Input, commissionRows, orderRows []internal.Row, join JoinStats) Stats {
	st := Stats{
		CommissionRecords: len(in.Commission.Rows),
		OrderRecords:      len(in.Order.Rows),
		ValidCommissions:  len(commissionRows),
		ValidOrders:       len(orderRows),
		Entities:          join.Entities,
		CommissionFields:  len(in.Commission.Headers),
		OrderFields:       len(in.Order.Headers),
	}

	profile := s.catalog.StatsProfile(vendor)
	for _, row := range commissionRows {
		st.TotalCommission += firstMoney(row, profile.CommissionColumns)
		st.TotalRevenue += firstMoney(row, profile.RevenueColumns)
	}
	return st
}

// firstMoney returns the first parseable amount among columns, or 0.
func firstMoney(row internal.Row, columns []string) float64 {
	for _, col := range columns {
		if v, ok := util.ParseMoney(row.Value(col)); ok {
			return v
		}
	}
	return 0
}

func displayName(name string) string {
	return util.FirstNonEmpty(name, "(inline)")
}
