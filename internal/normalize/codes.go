package normalize

import "strings"

// HCPCS trims and uppercases a HCPCS/CPT code. Returns "" for blank input.
func HCPCS(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsDeviceCode reports whether a HCPCS code is a pass-through device code.
// Device codes are C-codes on the ASC addenda.
func IsDeviceCode(hcpcs string) bool {
	return strings.HasPrefix(HCPCS(hcpcs), "C")
}
