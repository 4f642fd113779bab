package pipeline

import (
	"strings"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
	"feedjoin/internal/util"
)

const (
	defaultAccount       = "default"
	resolutionCommission = "commission_wins"
	joinKeySeparator     = "|"
)

// EntitySet keeps entities in order of first appearance during the join.
type EntitySet struct {
	entities []*internal.Entity
	byKey    map[string]*internal.Entity
}

func newEntitySet() *EntitySet {
	return &EntitySet{byKey: map[string]*internal.Entity{}}
}

func (s *EntitySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

func (s *EntitySet) Entities() []*internal.Entity {
	if s == nil {
		return nil
	}
	out := make([]*internal.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *EntitySet) Keys() []string {
	out := make([]string, 0, s.Len())
	for _, e := range s.Entities() {
		out = append(out, e.Key)
	}
	return out
}

// Get looks an entity up by its display key. Customer case, spacing and
// diacritics are ignored the same way the join ignores them.
func (s *EntitySet) Get(key string) (*internal.Entity, bool) {
	if s == nil {
		return nil, false
	}
	customer, account := key, ""
	if i := strings.LastIndex(key, joinKeySeparator); i >= 0 {
		customer, account = key[:i], key[i+1:]
	}
	e, ok := s.byKey[matchKey(customer, account)]
	return e, ok
}

type JoinStats struct {
	CommissionRows int `json:"commissionRows"`
	OrderRows      int `json:"orderRows"`
	Entities       int `json:"entities"`
	Linked         int `json:"linked"`
	CommissionOnly int `json:"commissionOnly"`
	OrderOnly      int `json:"orderOnly"`
	Anonymous      int `json:"anonymous"`
	DefaultAccount int `json:"defaultAccount"`
	Conflicts      int `json:"conflicts"`
}

// Unmatched counts entities that only one of the two feeds contributed to.
func (s JoinStats) Unmatched() int {
	return s.CommissionOnly + s.OrderOnly
}

type joiner struct {
	set        *EntitySet
	bareSource map[*internal.Entity]map[string]internal.SourceFile
}

// Join merges commission and order rows sharing a join key into entities.
// Bare field names are owned by provenance: a commission value is never
// replaced by an order value, an empty value may be filled by either side,
// and differing values are recorded as conflicts. Prefixed names always take
// the latest row of their side. The joiner never drops rows.
func Join(commission, order []internal.Row, keys catalog.JoinKeys) (*EntitySet, JoinStats) {
	j := &joiner{
		set:        newEntitySet(),
		bareSource: map[*internal.Entity]map[string]internal.SourceFile{},
	}

	for _, row := range commission {
		customer := KeyValue(row, keys.CommissionCustomer)
		account := KeyValue(row, keys.CommissionAccount)
		e := j.entity(customer, account)
		e.CommissionRows = append(e.CommissionRows, row)
		j.merge(e, row, internal.SourceCommission)
	}
	for _, row := range order {
		customer := KeyValue(row, keys.OrderCustomer)
		account := KeyValue(row, keys.OrderAccount)
		e := j.entity(customer, account)
		e.OrderRows = append(e.OrderRows, row)
		j.merge(e, row, internal.SourceOrder)
	}

	stats := JoinStats{
		CommissionRows: len(commission),
		OrderRows:      len(order),
		Entities:       j.set.Len(),
	}
	for _, e := range j.set.entities {
		switch {
		case e.Linked():
			stats.Linked++
		case len(e.CommissionRows) > 0:
			stats.CommissionOnly++
		default:
			stats.OrderOnly++
		}
		if e.Customer == "" {
			stats.Anonymous++
		}
		if e.Account == "" {
			stats.DefaultAccount++
		}
		stats.Conflicts += len(e.Conflicts)
	}
	return j.set, stats
}

func (j *joiner) entity(customer, account string) *internal.Entity {
	customer = strings.TrimSpace(customer)
	account = strings.TrimSpace(account)
	mk := matchKey(customer, account)
	if e, ok := j.set.byKey[mk]; ok {
		return e
	}
	e := &internal.Entity{
		Key:      DisplayKey(customer, account),
		Customer: customer,
		Account:  account,
		Combined: map[string]string{},
	}
	j.set.byKey[mk] = e
	j.set.entities = append(j.set.entities, e)
	j.bareSource[e] = map[string]internal.SourceFile{}
	return e
}

func (j *joiner) merge(e *internal.Entity, row internal.Row, side internal.SourceFile) {
	owners := j.bareSource[e]
	for _, field := range row.Headers() {
		value := row.Value(field)
		e.Combined[side.Prefix()+field] = value

		current, exists := e.Combined[field]
		owner := owners[field]
		switch {
		case !exists || current == "":
			e.Combined[field] = value
			owners[field] = side
		case side == internal.SourceCommission:
			if owner == internal.SourceOrder && value != current {
				addConflict(e, internal.FieldConflict{Field: field, CommissionValue: value, OrderValue: current, Resolution: resolutionCommission})
			}
			e.Combined[field] = value
			owners[field] = side
		case owner == internal.SourceCommission && value != "" && value != current:
			addConflict(e, internal.FieldConflict{Field: field, CommissionValue: current, OrderValue: value, Resolution: resolutionCommission})
		}
	}
}

func addConflict(e *internal.Entity, c internal.FieldConflict) {
	for _, existing := range e.Conflicts {
		if existing == c {
			return
		}
	}
	e.Conflicts = append(e.Conflicts, c)
}

// DisplayKey is the join key shown to users: customer|account, with
// "default" standing in for a missing account.
func DisplayKey(customer, account string) string {
	if account == "" {
		account = defaultAccount
	}
	return customer + joinKeySeparator + account
}

// matchKey is the comparison form of a join key. A literal "default" account
// and a missing one collide, as they do in the display key.
func matchKey(customer, account string) string {
	account = strings.ToLower(strings.TrimSpace(account))
	if account == "" {
		account = defaultAccount
	}
	return util.NormalizeName(customer) + joinKeySeparator + account
}
