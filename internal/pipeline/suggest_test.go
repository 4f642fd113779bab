package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedjoin/internal/catalog"
)

func TestSuggestRanksExactAbovePartial(t *testing.T) {
	s := NewSuggester(catalog.Default().Index(), 3)
	got := s.Suggest("CustomerID", []string{"Customer ID Number", "CustomerID"})

	require.NotEmpty(t, got)
	assert.Equal(t, "CustomerID", got[0].CandidateField)
	assert.Equal(t, 100, got[0].Confidence)
	assert.Equal(t, "exact match", got[0].Reason)
	require.Len(t, got, 2)
	assert.Equal(t, "Customer ID Number", got[1].CandidateField)
	assert.LessOrEqual(t, got[1].Confidence, 80)
}

func TestSuggestTiers(t *testing.T) {
	s := NewSuggester(catalog.Default().Index(), 3)
	got := s.Suggest("Rep", []string{"Seller", "Sales Agent", "Rep Name", "Net Billed"})

	require.Len(t, got, 3)
	assert.Equal(t, "Rep Name", got[0].CandidateField)
	assert.Equal(t, 80, got[0].Confidence)
	assert.Equal(t, "partial match", got[0].Reason)
	// Equal confidence keeps input order, not pattern order.
	assert.Equal(t, "Seller", got[1].CandidateField)
	assert.Equal(t, 60, got[1].Confidence)
	assert.Equal(t, "pattern match: seller", got[1].Reason)
	assert.Equal(t, "Sales Agent", got[2].CandidateField)
	assert.Equal(t, "pattern match: sales", got[2].Reason)
}

func TestSuggestLimitAndDeterminism(t *testing.T) {
	s := NewSuggester(catalog.Default().Index(), 3)
	headers := []string{"Sales Comm.", "Comp Paid", "Commission", "Agent comm.", "Commission Type"}

	first := s.Suggest("Commission", headers)
	require.Len(t, first, 3)
	assert.Equal(t, "Commission", first[0].CandidateField)
	assert.Equal(t, "Commission Type", first[1].CandidateField)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, s.Suggest("Commission", headers))
	}
}

func TestSuggestNoCandidates(t *testing.T) {
	s := NewSuggester(nil, 0)
	assert.Empty(t, s.Suggest("Zip", []string{"Customer", "Account"}))
	assert.Empty(t, s.Suggest("", []string{"Customer"}))
}

func TestSuggestPartialTierComparesTextAsWritten(t *testing.T) {
	s := NewSuggester(catalog.Default().Index(), 3)

	assert.Empty(t, s.Suggest("Zip", []string{"Z.I.P."}))

	for _, header := range []string{"customer_id", "CustomerID"} {
		for _, got := range s.Suggest("Customer ID", []string{header}) {
			assert.NotEqual(t, confidencePartial, got.Confidence, header)
		}
	}
	for _, got := range s.Suggest("Sign Date", []string{"SignDate"}) {
		assert.NotEqual(t, confidencePartial, got.Confidence)
	}

	got := s.Suggest("customer id", []string{"Customer ID Number"})
	require.Len(t, got, 1)
	assert.Equal(t, confidencePartial, got[0].Confidence)
}
