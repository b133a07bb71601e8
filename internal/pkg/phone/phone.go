package phone

import "regexp"

// e164 matches international-format numbers: leading +, country code that
// does not start with 0, at most 15 digits total.
var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// IsE164 reports whether s is a valid international-format phone number.
func IsE164(s string) bool {
	return e164.MatchString(s)
}
