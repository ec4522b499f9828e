package flow

import "regexp"

// phoneRe accepts +998 followed by 2+3+2+2 digit groups, each group
// optionally separated by a single space. Shared-contact payloads bypass
// this check entirely.
var phoneRe = regexp.MustCompile(`^\+998\s?\d{2}\s?\d{3}\s?\d{2}\s?\d{2}$`)

// ValidPhone reports whether free-text input is an acceptable phone number.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}
