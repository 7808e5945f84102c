// Package exitcode defines the process exit codes of the ascprice CLI.
package exitcode

const (
	Success         = 0
	UsageError      = 1 // bad flags or unreadable inputs
	ValidationError = 2 // claim failed structural validation
	DataError       = 3 // reference data missing or unloadable
	PricingError    = 4 // pricing aborted (wage index, provider)
	ExportError     = 5 // results could not be written
)
