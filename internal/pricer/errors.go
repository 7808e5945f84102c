package pricer

import (
	"errors"
	"fmt"
)

// ErrMissingProvider means neither a provider record nor a fallback CBSA
// was supplied. Wage index lookup is impossible, so pricing fails before
// any line calculation.
var ErrMissingProvider = errors.New("asc pricing requires a provider record or a claim-level CBSA")

// MissingWageIndexError means no wage index factor was resolvable for the
// claim after exhausting the provider and claim-level CBSA candidates.
// Fatal for surgical-line pricing.
type MissingWageIndexError struct {
	CBSA string
	Year int
}

func (e *MissingWageIndexError) Error() string {
	return fmt.Sprintf("no wage index for CBSA %q in %d", e.CBSA, e.Year)
}
