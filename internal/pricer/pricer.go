// Package pricer implements the ASC claim pricing engine: wage-adjusted
// rate calculation, modifier handling, MUE unit edits, ancillary
// eligibility gating, and multiple procedure reduction.
//
// The engine is a pure computation over an immutable reference bundle; a
// pricing run either completes deterministically or fails with a typed
// error. Concurrent runs may share one Pricer and one Store.
package pricer

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/normalize"
	"github.com/gyeh/ascpricer/internal/refdata"
)

// Options carries the per-run collaborator inputs: the provider record used
// for wage index lookup and the MUE limits in force for the run.
type Options struct {
	Provider  *model.ProviderRecord
	MueLimits map[string]model.MueLimit
}

// Pricer prices ASC claims against reference bundles resolved from a Store.
type Pricer struct {
	store *refdata.Store
	log   zerolog.Logger
}

// New returns a Pricer over the given reference data store.
func New(store *refdata.Store, log zerolog.Logger) *Pricer {
	return &Pricer{store: store, log: log}
}

// Price adjudicates and prices every line of the claim. Structural
// failures (no reference period, no resolvable wage index for a claim with
// surgical lines, no CBSA at all) abort the run with a typed error;
// per-line rule violations become denial annotations on the returned lines.
func (p *Pricer) Price(claim *model.Claim, opts Options) (*model.ClaimResult, error) {
	candidates := cbsaCandidates(claim, opts.Provider)
	if len(candidates) == 0 {
		return nil, ErrMissingProvider
	}

	bundle, err := p.store.Resolve(claim.ThruDate)
	if err != nil {
		return nil, err
	}

	cbsa, factor, err := lookupWageIndex(bundle, candidates, claim.ThruDate.Year())
	if err != nil {
		if claimHasSurgical(claim, bundle) {
			return nil, err
		}
		// Ancillary-only claim: no surgical line can price, so the wage
		// index is moot. Continue so the gate can annotate each line.
		cbsa = candidates[0]
		factor = decimal.NewFromInt(1)
	}

	deviceUnits := passThroughDeviceUnits(claim, bundle)

	lines := make([]model.PricedLine, 0, len(claim.Lines))
	for i, line := range claim.Lines {
		num := line.LineNumber
		if num == 0 {
			num = i + 1
		}
		lines = append(lines, priceLine(line, num, bundle, factor, claim.ThruDate, deviceUnits))
	}

	applyMUE(lines, claim, opts.MueLimits)
	gateAncillary(lines, bundle)

	result := &model.ClaimResult{
		RunID:     uuid.NewString(),
		CBSA:      cbsa,
		WageIndex: factor,
		Lines:     lines,
	}
	finalize(result)

	p.log.Debug().
		Str("run_id", result.RunID).
		Str("cbsa", cbsa).
		Int("lines", len(lines)).
		Str("total", result.Total.String()).
		Msg("claim priced")
	return result, nil
}

// claimHasSurgical reports whether any claim line is on the surgical
// addendum. Determines whether a missing wage index aborts the run.
func claimHasSurgical(claim *model.Claim, bundle *refdata.Bundle) bool {
	for _, line := range claim.Lines {
		if info, ok := bundle.Rate(normalize.HCPCS(line.HCPCS)); ok && info.Addendum == refdata.AddendumSurgical {
			return true
		}
	}
	return false
}

// passThroughDeviceUnits tallies billed units per pass-through device code
// on the claim. Per CMS §40.7 each device unit funds at most one code pair
// offset; the budget is drawn down during line pricing.
func passThroughDeviceUnits(claim *model.Claim, bundle *refdata.Bundle) map[string]int {
	units := make(map[string]int)
	for _, line := range claim.Lines {
		hcpcs := normalize.HCPCS(line.HCPCS)
		if !normalize.IsDeviceCode(hcpcs) || !bundle.HasDevicePairs(hcpcs) {
			continue
		}
		units[hcpcs] += line.BilledUnits()
	}
	return units
}
