package encoding

import "fmt"

// FallbackRule replaces a categorical value the encoder does not know.
type FallbackRule struct {
	Description string
	Matches     func(value string) bool
	Replacement string
}

// AliasRule maps one exact value to a known category.
func AliasRule(from, to string) FallbackRule {
	return FallbackRule{
		Description: fmt.Sprintf("%q -> %q", from, to),
		Matches:     func(value string) bool { return value == from },
		Replacement: to,
	}
}

// DefaultRule maps any value to a known category. It belongs at the end of
// a table.
func DefaultRule(to string) FallbackRule {
	return FallbackRule{
		Description: fmt.Sprintf("* -> %q", to),
		Matches:     func(string) bool { return true },
		Replacement: to,
	}
}

// FallbackTable is an ordered list of rules; the first match wins.
type FallbackTable []FallbackRule

// Resolve returns the replacement for value, or false when no rule applies.
func (t FallbackTable) Resolve(value string) (string, bool) {
	for _, rule := range t {
		if rule.Matches(value) {
			return rule.Replacement, true
		}
	}
	return "", false
}

// DefaultEducationFallback is the table used when the artifact bundle does
// not carry one.
func DefaultEducationFallback() FallbackTable {
	return FallbackTable{
		AliasRule("Mestrado", "Pós-graduação"),
		DefaultRule("Graduação"),
	}
}
