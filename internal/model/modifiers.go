package model

import (
	"fmt"
	"strings"
)

// Modifier is one of the closed set of payment-affecting HCPCS modifiers.
// Any other modifier on a line is informational and ignored by pricing.
type Modifier string

const (
	ModTerminatedPreAnesthesia  Modifier = "73" // discontinued before anesthesia, 50% payment
	ModTerminatedPostAnesthesia Modifier = "74" // discontinued after anesthesia, full payment
	ModReducedServices          Modifier = "52" // reduced services, 50% payment
	ModDeviceNoCost             Modifier = "FB" // device furnished at no cost, full offset removed
	ModDevicePartialCredit      Modifier = "FC" // device with partial credit, half offset removed
	ModCoinsuranceWaiver        Modifier = "PT" // preventive-to-diagnostic conversion, coinsurance waived
)

// ModifierSet is the parsed, validated view of a line's modifiers.
type ModifierSet struct {
	TerminatedPre    bool
	TerminatedPost   bool
	Reduced          bool
	DeviceCredit     bool // FB
	DevicePartial    bool // FC
	WaiveCoinsurance bool // PT
}

// MPRExempt reports whether the line is excluded from multiple procedure
// reduction ranking. Terminated-pre and reduced lines keep their modifier
// reduction and never enter the ranking pool.
func (m ModifierSet) MPRExempt() bool {
	return m.TerminatedPre || m.Reduced
}

// InvalidModifierCombinationError reports mutually exclusive modifiers on a
// single line. It denies that line only; sibling lines price normally.
type InvalidModifierCombinationError struct {
	Modifiers []string
}

func (e *InvalidModifierCombinationError) Error() string {
	return fmt.Sprintf("invalid modifier combination: %s", strings.Join(e.Modifiers, "+"))
}

// ParseModifierSet folds a line's modifier strings into a ModifierSet.
// Modifiers 73 and 52 are mutually exclusive; both on one line is an
// InvalidModifierCombinationError.
func ParseModifierSet(modifiers []string) (ModifierSet, error) {
	var set ModifierSet
	for _, raw := range modifiers {
		switch Modifier(strings.ToUpper(strings.TrimSpace(raw))) {
		case ModTerminatedPreAnesthesia:
			set.TerminatedPre = true
		case ModTerminatedPostAnesthesia:
			set.TerminatedPost = true
		case ModReducedServices:
			set.Reduced = true
		case ModDeviceNoCost:
			set.DeviceCredit = true
		case ModDevicePartialCredit:
			set.DevicePartial = true
		case ModCoinsuranceWaiver:
			set.WaiveCoinsurance = true
		}
	}
	if set.TerminatedPre && set.Reduced {
		return ModifierSet{}, &InvalidModifierCombinationError{
			Modifiers: []string{string(ModTerminatedPreAnesthesia), string(ModReducedServices)},
		}
	}
	return set, nil
}
