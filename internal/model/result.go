package model

import (
	"github.com/shopspring/decimal"
)

// LineStatus is the adjudication status of a priced line.
type LineStatus string

const (
	StatusPayable       LineStatus = "payable"
	StatusDenied        LineStatus = "denied"
	StatusPackaged      LineStatus = "packaged"
	StatusUnprocessable LineStatus = "unprocessable"
)

// ReasonCode identifies why a line was denied, reduced, or returned.
type ReasonCode string

const (
	ReasonNone                   ReasonCode = ""
	ReasonNotCovered             ReasonCode = "NOT_COVERED"
	ReasonIndicatorDenied        ReasonCode = "INDICATOR_DENIED"
	ReasonIndicatorPackaged      ReasonCode = "INDICATOR_PACKAGED"
	ReasonIndicatorUnprocessable ReasonCode = "INDICATOR_UNPROCESSABLE"
	ReasonMueExceeded            ReasonCode = "MUE_EXCEEDED"
	ReasonMuePartial             ReasonCode = "MUE_PARTIAL"
	ReasonNoRelatedSurgical      ReasonCode = "NO_RELATED_SURGICAL_PROCEDURE"
	ReasonInvalidModifiers       ReasonCode = "INVALID_MODIFIER_COMBINATION"
)

// DiscountTier records where a payable line landed in the multiple
// procedure reduction ranking.
type DiscountTier string

const (
	TierNone      DiscountTier = ""          // line did not reach ranking (denied, packaged, unprocessable)
	TierPrimary   DiscountTier = "primary"   // highest-rate line, first unit at 100%
	TierSecondary DiscountTier = "secondary" // ranked below primary, all units at 50%
	TierExempt    DiscountTier = "exempt"    // payable but outside the ranking pool
)

// PricedLine is the engine output for one claim line. Exactly one PricedLine
// is produced per submitted ClaimLine, in line order.
type PricedLine struct {
	LineNumber       int             `json:"line_number"`
	HCPCS            string          `json:"hcpcs"`
	PaymentIndicator string          `json:"payment_indicator,omitempty"`
	PaymentRate      decimal.Decimal `json:"payment_rate"`
	WageIndex        decimal.Decimal `json:"wage_index"`
	AdjustedRate     decimal.Decimal `json:"adjusted_rate"`
	Units            int             `json:"units"`

	DeviceOffset   decimal.Decimal `json:"device_offset"`
	DeviceCredit   bool            `json:"device_credit"`
	CodePairOffset decimal.Decimal `json:"code_pair_offset"`
	CodePairDevice string          `json:"code_pair_device,omitempty"`

	SubjectToDiscount bool            `json:"subject_to_discount"`
	DiscountApplied   bool            `json:"discount_applied"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	Tier              DiscountTier    `json:"tier,omitempty"`

	CoinsuranceWaived bool       `json:"coinsurance_waived,omitempty"`
	Status            LineStatus `json:"status"`
	Reason            ReasonCode `json:"reason,omitempty"`
	Detail            string     `json:"detail,omitempty"`

	LinePayment     decimal.Decimal `json:"line_payment"`
	LineCoinsurance decimal.Decimal `json:"line_coinsurance"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// Payable reports whether the line survived adjudication.
func (p *PricedLine) Payable() bool { return p.Status == StatusPayable }

// Zero clears the line's rate and payment fields after a denial.
func (p *PricedLine) Zero() {
	p.AdjustedRate = decimal.Zero
	p.Units = 0
	p.LinePayment = decimal.Zero
	p.LineCoinsurance = decimal.Zero
	p.LineTotal = decimal.Zero
}

// ClaimResult is the priced claim: one PricedLine per input line plus
// claim-level totals. TotalPayment is the 80% program share,
// TotalCoinsurance the beneficiary share, Total the full allowed amount.
type ClaimResult struct {
	RunID            string          `json:"run_id"`
	CBSA             string          `json:"cbsa"`
	WageIndex        decimal.Decimal `json:"wage_index"`
	Lines            []PricedLine    `json:"lines"`
	TotalPayment     decimal.Decimal `json:"total_payment"`
	TotalCoinsurance decimal.Decimal `json:"total_coinsurance"`
	Total            decimal.Decimal `json:"total"`
}
