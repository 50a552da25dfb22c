// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from free-text inputs before they are
// stored or echoed back: godchild names, sponsor names and phones, session
// names. These fields are plain text; anything that looks like HTML is noise
// at best and an injection attempt at worst.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Strip removes every HTML tag and attribute from s, leaving only text.
func Strip(s string) string {
	return strict.Sanitize(s)
}
