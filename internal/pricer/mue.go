package pricer

import (
	"fmt"
	"time"

	"github.com/gyeh/ascpricer/internal/model"
)

// mueGroup keys MUE enforcement: limits apply per HCPCS per date of
// service. Lines without a service date share one bucket per code.
type mueGroup struct {
	code    string
	date    time.Time
	hasDate bool
}

// applyMUE enforces Medically Unlikely Edit unit caps on payable lines,
// before the ancillary gate so a denied surgical code also takes down its
// dependent ancillary services. Lines already denied by indicator are
// neither counted nor touched.
func applyMUE(lines []model.PricedLine, claim *model.Claim, limits map[string]model.MueLimit) {
	if len(limits) == 0 {
		return
	}

	groups := make(map[mueGroup][]*model.PricedLine)
	for i := range lines {
		pl := &lines[i]
		if !pl.Payable() {
			continue
		}
		if _, ok := limits[pl.HCPCS]; !ok {
			continue
		}
		key := mueGroup{code: pl.HCPCS}
		if i < len(claim.Lines) && claim.Lines[i].ServiceDate != nil {
			key.date = *claim.Lines[i].ServiceDate
			key.hasDate = true
		}
		groups[key] = append(groups[key], pl)
	}

	for key, group := range groups {
		limit := limits[key.code]
		total := 0
		for _, pl := range group {
			total += pl.Units
		}
		if total <= limit.Limit {
			continue
		}

		if !limit.UpToLimit {
			// Line edit: the claim cannot be split, every line for the
			// code/date is denied in full.
			for _, pl := range group {
				pl.Status = model.StatusDenied
				pl.Reason = model.ReasonMueExceeded
				pl.Detail = fmt.Sprintf("MUE exceeded: %d units billed, limit %d (all units denied)", total, limit.Limit)
				pl.Zero()
			}
			continue
		}

		// Date-of-service edit: fill units greedily in claim order, deny
		// the excess.
		remaining := limit.Limit
		for _, pl := range group {
			billed := pl.Units
			switch {
			case remaining <= 0:
				pl.Status = model.StatusDenied
				pl.Reason = model.ReasonMueExceeded
				pl.Detail = fmt.Sprintf("MUE exceeded: %d units billed, limit %d (excess denied)", total, limit.Limit)
				pl.Zero()
			case billed > remaining:
				pl.Units = remaining
				pl.Reason = model.ReasonMuePartial
				pl.Detail = fmt.Sprintf("MUE partial: %d units billed, %d allowed (limit %d)", billed, remaining, limit.Limit)
				remaining = 0
			default:
				remaining -= billed
			}
		}
	}
}
