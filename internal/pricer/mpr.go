package pricer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
)

var programShare = decimal.NewFromFloat(0.80)

// finalize applies the multiple procedure reduction and settles every
// line's payment fields and the claim totals.
//
// The ranking pool holds payable, discount-eligible lines with a positive
// adjusted rate. The pool is ordered by adjusted rate descending, stable on
// claim line order; the top line's first unit pays 100% and every other
// unit in the pool pays 50%. Payable lines outside the pool (modifier
// 73/52 reductions, table-flagged non-discountable codes) pay their full
// adjusted rate per unit and are never re-ranked.
func finalize(result *model.ClaimResult) {
	lines := result.Lines

	var pool []*model.PricedLine
	for i := range lines {
		pl := &lines[i]
		if pl.Payable() && pl.SubjectToDiscount && pl.AdjustedRate.IsPositive() {
			pool = append(pool, pl)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].AdjustedRate.GreaterThan(pool[j].AdjustedRate)
	})

	for idx, pl := range pool {
		units := int64(pl.Units)
		var amount decimal.Decimal
		if idx == 0 {
			pl.Tier = model.TierPrimary
			pl.DiscountApplied = false
			amount = pl.AdjustedRate
			if units > 1 {
				amount = amount.Add(pl.AdjustedRate.Mul(half).Mul(decimal.NewFromInt(units - 1)))
			}
		} else {
			pl.Tier = model.TierSecondary
			pl.DiscountApplied = true
			amount = pl.AdjustedRate.Mul(half).Mul(decimal.NewFromInt(units))
		}
		settle(pl, amount)
	}

	for i := range lines {
		pl := &lines[i]
		if !pl.Payable() || pl.Tier != model.TierNone {
			continue
		}
		pl.Tier = model.TierExempt
		settle(pl, pl.AdjustedRate.Mul(decimal.NewFromInt(int64(pl.Units))))
	}

	total, payment, coinsurance := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineTotal)
		payment = payment.Add(lines[i].LinePayment)
		coinsurance = coinsurance.Add(lines[i].LineCoinsurance)
	}
	result.Total = total
	result.TotalPayment = payment
	result.TotalCoinsurance = coinsurance
}

// settle rounds the line's allowed amount to cents and splits it into the
// 80% program payment and the beneficiary coinsurance. The coinsurance is
// the exact remainder so payment + coinsurance always equals the line
// total. A PT modifier waives the coinsurance entirely.
func settle(pl *model.PricedLine, amount decimal.Decimal) {
	lineTotal := amount.Round(2)
	pl.LineTotal = lineTotal

	undiscounted := pl.AdjustedRate.Mul(decimal.NewFromInt(int64(pl.Units)))
	if undiscounted.IsPositive() {
		pl.DiscountPercent = lineTotal.Div(undiscounted).Round(4)
	}

	if pl.CoinsuranceWaived {
		pl.LinePayment = lineTotal
		pl.LineCoinsurance = decimal.Zero
		return
	}
	pl.LinePayment = lineTotal.Mul(programShare).Round(2)
	pl.LineCoinsurance = lineTotal.Sub(pl.LinePayment)
}
