package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim is a single ASC claim submitted for pricing. Lines keep their
// submitted order; that order is the tiebreaker for ranking and the fill
// order for unit edits.
type Claim struct {
	ProviderCCN string      `json:"provider_ccn"`
	ThruDate    time.Time   `json:"thru_date"`
	CBSA        string      `json:"cbsa,omitempty"` // fallback when the provider record has no usable CBSA
	Lines       []ClaimLine `json:"lines"`
}

// ClaimLine is one billed service on a claim. Immutable once submitted.
type ClaimLine struct {
	LineNumber  int             `json:"line_number"`
	HCPCS       string          `json:"hcpcs"`
	Modifiers   []string        `json:"modifiers,omitempty"`
	Units       int             `json:"units"`
	Charges     decimal.Decimal `json:"charges"`
	ServiceDate *time.Time      `json:"service_date,omitempty"`
	RevenueCode string          `json:"revenue_code,omitempty"`
}

// BilledUnits returns the unit count, treating zero/negative as one.
func (l ClaimLine) BilledUnits() int {
	if l.Units < 1 {
		return 1
	}
	return l.Units
}

// ProviderRecord carries the geographic fields of an outpatient provider
// file entry used for wage index lookup. The wage index location takes
// precedence over the actual geographic location.
type ProviderRecord struct {
	CCN            string `json:"ccn"`
	WageIndexCBSA  string `json:"wage_index_cbsa"`
	GeographicCBSA string `json:"geographic_cbsa"`
}

// MueLimit is a per-HCPCS Medically Unlikely Edit unit cap.
//
// UpToLimit selects the enforcement mode: false is a line edit (units over
// the limit deny every line for the code/date), true is a date-of-service
// edit (units are filled greedily up to the limit, the excess is denied).
type MueLimit struct {
	Code      string `json:"code" yaml:"code"`
	Limit     int    `json:"limit" yaml:"limit"`
	UpToLimit bool   `json:"up_to_limit" yaml:"up_to_limit"`
}
