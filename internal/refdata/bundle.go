package refdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Addendum identifies which ASC addendum a rate row came from.
const (
	AddendumSurgical  = "AA" // surgical procedures
	AddendumAncillary = "BB" // covered ancillary services
)

// RateInfo is the fee schedule entry for one HCPCS code.
type RateInfo struct {
	Rate              decimal.Decimal
	Indicator         string
	SubjectToDiscount bool
	Addendum          string
}

// PairKey identifies a device/procedure code pair.
type PairKey struct {
	Device    string
	Procedure string
}

// CodePair is one pass-through device offset entry. A pair may carry
// several entries with different effective ranges.
type CodePair struct {
	DeviceModifier    string
	ProcedureModifier string
	Multiplier        decimal.Decimal
	EffectiveDate     *time.Time
	EndDate           *time.Time
}

// InRange reports whether the entry is effective on the given date.
// Missing boundaries are open-ended.
func (c CodePair) InRange(date time.Time) bool {
	if c.EffectiveDate != nil && date.Before(*c.EffectiveDate) {
		return false
	}
	if c.EndDate != nil && date.After(*c.EndDate) {
		return false
	}
	return true
}

// Bundle is the immutable reference snapshot for one (year, quarter)
// period. Bundles are loaded once and shared read-only across concurrent
// pricing runs; nothing mutates them after Load returns.
type Bundle struct {
	Quarter       time.Time
	Rates         map[string]RateInfo
	DeviceOffsets map[string]decimal.Decimal
	WageIndexes   map[string]decimal.Decimal
	CodePairs     map[PairKey][]CodePair
}

// Rate returns the fee schedule entry for a HCPCS code.
func (b *Bundle) Rate(hcpcs string) (RateInfo, bool) {
	r, ok := b.Rates[hcpcs]
	return r, ok
}

// DeviceOffset returns the full device offset amount for a HCPCS code, or
// zero when the code has none.
func (b *Bundle) DeviceOffset(hcpcs string) decimal.Decimal {
	return b.DeviceOffsets[hcpcs]
}

// WageIndex returns the wage index factor for a CBSA.
func (b *Bundle) WageIndex(cbsa string) (decimal.Decimal, bool) {
	w, ok := b.WageIndexes[cbsa]
	return w, ok
}

// PairMultiplier returns the percent multiplier for a device/procedure pair
// effective on the given date, or ok=false when no entry matches.
func (b *Bundle) PairMultiplier(device, procedure string, date time.Time) (decimal.Decimal, bool) {
	for _, entry := range b.CodePairs[PairKey{Device: device, Procedure: procedure}] {
		if entry.InRange(date) && entry.Multiplier.IsPositive() {
			return entry.Multiplier, true
		}
	}
	return decimal.Zero, false
}

// HasDevicePairs reports whether any code pair exists for the device code.
func (b *Bundle) HasDevicePairs(device string) bool {
	for key := range b.CodePairs {
		if key.Device == device {
			return true
		}
	}
	return false
}
