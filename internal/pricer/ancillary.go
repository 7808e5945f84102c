package pricer

import (
	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/refdata"
)

// gateAncillary enforces the related-surgical-procedure requirement:
// covered ancillary services are payable only when at least one surgical
// line on the claim survived adjudication. Runs after MUE so an MUE-denied
// surgical code does not unlock its ancillary services. The gate never
// adjusts prices, only eligibility.
func gateAncillary(lines []model.PricedLine, bundle *refdata.Bundle) {
	for i := range lines {
		pl := &lines[i]
		if pl.Payable() && addendum(bundle, pl.HCPCS) == refdata.AddendumSurgical {
			return
		}
	}

	for i := range lines {
		pl := &lines[i]
		if !pl.Payable() || addendum(bundle, pl.HCPCS) != refdata.AddendumAncillary {
			continue
		}
		pl.Status = model.StatusUnprocessable
		pl.Reason = model.ReasonNoRelatedSurgical
		pl.Detail = "no payable surgical procedure on claim"
		pl.Zero()
	}
}

func addendum(bundle *refdata.Bundle, hcpcs string) string {
	info, ok := bundle.Rate(hcpcs)
	if !ok {
		return ""
	}
	return info.Addendum
}
