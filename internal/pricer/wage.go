package pricer

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/refdata"
)

var half = decimal.NewFromFloat(0.5)

// cbsaCandidates lists the CBSA codes to try for wage index lookup, in
// precedence order: the provider's wage index location, the provider's
// actual geographic location, then the claim-level fallback.
func cbsaCandidates(claim *model.Claim, provider *model.ProviderRecord) []string {
	var out []string
	if provider != nil {
		if provider.WageIndexCBSA != "" {
			out = append(out, provider.WageIndexCBSA)
		}
		if provider.GeographicCBSA != "" {
			out = append(out, provider.GeographicCBSA)
		}
	}
	if claim.CBSA != "" {
		out = append(out, claim.CBSA)
	}
	return out
}

// lookupWageIndex resolves the first candidate CBSA present in the
// bundle's wage index table. All candidates missing is a
// MissingWageIndexError carrying the primary candidate.
func lookupWageIndex(bundle *refdata.Bundle, candidates []string, year int) (string, decimal.Decimal, error) {
	for _, cbsa := range candidates {
		if factor, ok := bundle.WageIndex(cbsa); ok {
			return cbsa, factor, nil
		}
	}
	return "", decimal.Zero, &MissingWageIndexError{CBSA: candidates[0], Year: year}
}

// adjustRate applies the 50/50 labor split geographic adjustment: the
// labor half of the rate is scaled by the wage index, the non-labor half
// is paid flat.
func adjustRate(rate, wageIndex decimal.Decimal) decimal.Decimal {
	labor := rate.Mul(half)
	return labor.Mul(wageIndex).Add(rate.Sub(labor))
}
