package pricer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/normalize"
	"github.com/gyeh/ascpricer/internal/refdata"
)

// priceLine adjudicates and prices a single claim line: fee schedule
// lookup, payment indicator denials, geographic adjustment, pass-through
// device offsets, and modifier reductions. The adjusted rate is always
// computed before any modifier reduction. deviceUnits is the shared
// pass-through budget and is drawn down here.
func priceLine(line model.ClaimLine, num int, bundle *refdata.Bundle, wageIndex decimal.Decimal, claimDate time.Time, deviceUnits map[string]int) model.PricedLine {
	out := model.PricedLine{
		LineNumber: num,
		HCPCS:      normalize.HCPCS(line.HCPCS),
		Units:      line.BilledUnits(),
		WageIndex:  wageIndex,
	}
	var details []string

	mods, err := model.ParseModifierSet(line.Modifiers)
	if err != nil {
		out.Status = model.StatusDenied
		out.Reason = model.ReasonInvalidModifiers
		out.Detail = err.Error()
		out.Zero()
		return out
	}
	out.CoinsuranceWaived = mods.WaiveCoinsurance

	info, ok := bundle.Rate(out.HCPCS)
	if !ok {
		out.Status = model.StatusDenied
		out.Reason = model.ReasonNotCovered
		out.Detail = "code not on ASC fee schedule"
		return out
	}
	out.PaymentIndicator = info.Indicator
	out.PaymentRate = info.Rate
	out.SubjectToDiscount = info.SubjectToDiscount

	switch {
	case denyIndicators[info.Indicator]:
		out.Status = model.StatusDenied
		out.Reason = model.ReasonIndicatorDenied
		out.Detail = fmt.Sprintf("indicator %s: denied", info.Indicator)
		return out
	case packagedIndicators[info.Indicator]:
		out.Status = model.StatusPackaged
		out.Reason = model.ReasonIndicatorPackaged
		out.Detail = fmt.Sprintf("indicator %s: packaged, no separate payment", info.Indicator)
		return out
	case unprocessableIndicators[info.Indicator]:
		out.Status = model.StatusUnprocessable
		out.Reason = model.ReasonIndicatorUnprocessable
		out.Detail = fmt.Sprintf("indicator %s: unprocessable", info.Indicator)
		return out
	}
	if info.Rate.IsZero() {
		out.Status = model.StatusPackaged
		out.Detail = "packaged or no separate payment"
		return out
	}
	out.Status = model.StatusPayable

	// Geographic adjustment. Certain indicators pay the flat rate.
	var adjusted decimal.Decimal
	if wageExemptIndicators[info.Indicator] {
		adjusted = info.Rate
		details = append(details, fmt.Sprintf("no wage adjustment (indicator %s)", info.Indicator))
	} else {
		adjusted = adjustRate(info.Rate, wageIndex)
	}

	// Pass-through device code pair offset. Procedure lines only; each
	// device unit funds a single offset across the claim.
	if !normalize.IsDeviceCode(out.HCPCS) && len(deviceUnits) > 0 {
		for _, device := range sortedDeviceCodes(deviceUnits) {
			if deviceUnits[device] <= 0 {
				continue
			}
			mult, ok := bundle.PairMultiplier(device, out.HCPCS, claimDate)
			if !ok {
				continue
			}
			offset := adjusted.Mul(mult)
			adjusted = adjusted.Sub(offset)
			if adjusted.IsNegative() {
				adjusted = decimal.Zero
			}
			out.CodePairOffset = offset
			out.CodePairDevice = device
			deviceUnits[device]--
			details = append(details, fmt.Sprintf("code pair %s offset %s", device, offset.Round(2)))
			break
		}
	}

	// Device offset removal precedes any termination percentage. A
	// terminated-pre line removes the full offset regardless of FB/FC.
	var offset decimal.Decimal
	switch {
	case mods.TerminatedPre:
		offset = bundle.DeviceOffset(out.HCPCS)
		if offset.IsPositive() {
			details = append(details, fmt.Sprintf("mod 73: device offset %s removed", offset))
		}
		if mods.DeviceCredit || mods.DevicePartial {
			details = append(details, "mod 73 present, FB/FC ignored")
		}
	case mods.DeviceCredit:
		offset = bundle.DeviceOffset(out.HCPCS)
		if offset.IsPositive() {
			out.DeviceCredit = true
			details = append(details, fmt.Sprintf("mod FB: full device offset %s removed", offset))
		}
	case mods.DevicePartial:
		offset = bundle.DeviceOffset(out.HCPCS).Mul(half)
		if offset.IsPositive() {
			out.DeviceCredit = true
			details = append(details, fmt.Sprintf("mod FC: partial device offset %s removed", offset))
		}
	}
	if offset.IsPositive() {
		out.DeviceOffset = offset
		adjusted = adjusted.Sub(offset)
		if adjusted.IsNegative() {
			adjusted = decimal.Zero
		}
	}

	// Termination/reduction percentage. 73 and 52 lines leave the
	// multiple procedure reduction pool.
	switch {
	case mods.TerminatedPre:
		adjusted = adjusted.Mul(half)
		out.SubjectToDiscount = false
		details = append(details, "mod 73: 50% reduction")
	case mods.Reduced:
		adjusted = adjusted.Mul(half)
		out.SubjectToDiscount = false
		details = append(details, "mod 52: 50% reduction")
	case mods.TerminatedPost:
		details = append(details, "mod 74: full payment")
	}

	// Lower of the adjusted rate and billed charges per unit.
	if line.Charges.IsPositive() {
		perUnit := line.Charges.Div(decimal.NewFromInt(int64(out.Units)))
		if perUnit.LessThan(adjusted) {
			adjusted = perUnit
			details = append(details, fmt.Sprintf("lower of billed charges %s", perUnit.Round(2)))
		}
	}

	out.AdjustedRate = adjusted
	out.Detail = strings.Join(details, "; ")
	return out
}

// sortedDeviceCodes returns the device budget keys in a stable order so
// repeated runs consume device units identically.
func sortedDeviceCodes(units map[string]int) []string {
	codes := make([]string, 0, len(units))
	for code := range units {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
