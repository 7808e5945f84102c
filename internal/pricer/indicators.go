package pricer

// Payment indicator adjudication per CMS §60.3.
var (
	// Denied outright, no payment.
	denyIndicators = map[string]bool{
		"C5": true, "M6": true, "U5": true, "X5": true, "E5": true, "Y5": true, "K5": true,
	}
	// Denied as packaged, no separate payment.
	packagedIndicators = map[string]bool{
		"L1": true, "NI": true, "S1": true, "D1": true,
	}
	// Returned as unprocessable.
	unprocessableIndicators = map[string]bool{
		"D5": true, "B5": true,
	}
)

// Payment indicators exempt from geographic wage adjustment per CMS §40.2:
// brachytherapy sources (H2), pass-through devices (J7), separately payable
// and unclassified drugs/biologicals (K2, K7), reasonable-cost items (F4),
// and NTIOL/non-opioid devices (L6).
var wageExemptIndicators = map[string]bool{
	"H2": true, "J7": true, "K2": true, "K7": true, "F4": true, "L6": true,
}
