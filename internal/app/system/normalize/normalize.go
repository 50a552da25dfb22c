// internal/app/system/normalize/normalize.go

// Package normalize centralizes the string canonicalization rules used for
// idempotence and duplicate checks: godchild names, sponsor phones, and the
// *_ci key fields stored alongside display values.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Name trims the input and collapses internal whitespace runs to single
// spaces. This is the display form saved on records.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameKey returns the comparison key for a person name: trimmed, collapsed,
// lowercased, and diacritics-stripped. Two registrations with names that fold
// to the same key are the same godchild.
func NameKey(s string) string {
	return text.Fold(Name(s))
}

// Phone strips all whitespace from a contact string. Phones are otherwise
// opaque; "06 12 34" and "061234" are the same number for duplicate checks.
func Phone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Email returns the canonical form of an email address: trimmed and
// lowercased.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailKey returns the comparison key stored in email_ci fields.
func EmailKey(s string) string {
	return text.Fold(Email(s))
}
