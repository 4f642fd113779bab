package pipeline

import (
	"strings"

	"feedjoin/internal"
	"feedjoin/internal/catalog"
)

type DetectOptions struct {
	MinScore   float64
	MinMatches int
}

func DefaultDetectOptions() DetectOptions {
	return DetectOptions{MinScore: 0.5, MinMatches: 2}
}

type VendorScore struct {
	Vendor            internal.VendorTag `json:"vendor"`
	CommissionMatches int                `json:"commissionMatches"`
	OrderMatches      int                `json:"orderMatches"`
	Score             float64            `json:"score"`
	Qualified         bool               `json:"qualified"`
}

type Detection struct {
	Vendor     internal.VendorTag `json:"vendor"`
	Name       string             `json:"name"`
	Score      float64            `json:"score"`
	Candidates []VendorScore      `json:"candidates"`
}

// DetectVendor scores every profile in catalog order. A later profile only
// replaces the current best on a strictly higher score, so catalog order
// breaks ties. With no qualifying profile the result is GENERIC.
func DetectVendor(profiles []catalog.VendorProfile, commissionHeaders, orderHeaders []string, opts DetectOptions) Detection {
	commission := lowerAll(commissionHeaders)
	order := lowerAll(orderHeaders)

	result := Detection{Vendor: internal.VendorGeneric, Name: "Generic System"}
	for _, p := range profiles {
		total := p.ExpectedCount()
		if total == 0 {
			continue
		}
		vs := VendorScore{
			Vendor:            p.Tag,
			CommissionMatches: countSignatureMatches(p.CommissionFields, commission),
			OrderMatches:      countSignatureMatches(p.OrderFields, order),
		}
		matches := vs.CommissionMatches + vs.OrderMatches
		vs.Score = float64(matches) / float64(total)
		vs.Qualified = vs.Score >= opts.MinScore && matches >= opts.MinMatches
		result.Candidates = append(result.Candidates, vs)

		if vs.Qualified && vs.Score > result.Score {
			result.Vendor = p.Tag
			result.Name = p.Name
			result.Score = vs.Score
		}
	}
	return result
}

func countSignatureMatches(expected, headers []string) int {
	count := 0
	for _, sig := range expected {
		sig = strings.ToLower(sig)
		for _, h := range headers {
			if strings.Contains(h, sig) {
				count++
				break
			}
		}
	}
	return count
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
