package core

// rules.go defines the field-level format rules.
//
// Each rule takes one raw field value and reports whether it conforms. Rules
// are pure: no side effects, no errors. A value that cannot even be parsed
// (e.g. a non-numeric weight) simply does not conform.
//
// Patterns anchored only at the start (telephone, inn, passport series)
// accept trailing characters. Patterns that must cover the whole value are
// anchored at both ends.

import (
	"regexp"
	"strings"
)

// MinBodyValue and MaxBodyValue bound weight and age: 0 < v <= 150.
const (
	MinBodyValue = 0
	MaxBodyValue = 150
)

// UniversityMarker must appear in a university name.
const UniversityMarker = "университет"

// StreetPrefix must start an address.
const StreetPrefix = "ул. "

// cyrillic is the letter range А..я (U+0410-U+044F).
const cyrillic = `\x{0410}-\x{044F}`

var (
	telephoneRegex      = regexp.MustCompile(`^\+\d-\(\d{3}\)-\d{3}-\d{2}-\d{2}`)
	innRegex            = regexp.MustCompile(`^\d{12}`)
	passportSeriesRegex = regexp.MustCompile(`^\d{2} \d{2}`)
	universityRegex     = regexp.MustCompile(`^[` + cyrillic + ` .\-]+$`)
	viewsRegex          = regexp.MustCompile(`^[` + cyrillic + ` .]+$`)
	addressRegex        = regexp.MustCompile(`^[` + cyrillic + `0-9 .]+$`)
)

// CheckTelephone matches +D-(DDD)-DDD-DD-DD at the start of the value.
func CheckTelephone(s string) bool {
	return telephoneRegex.MatchString(s)
}

// CheckWeight accepts integers in (0, 150].
func CheckWeight(n Number) bool {
	return inBodyRange(n)
}

// CheckINN matches 12 consecutive digits at the start of the value.
// Trailing characters are not rejected.
func CheckINN(s string) bool {
	return innRegex.MatchString(s)
}

// CheckPassportSeries matches "DD DD" at the start of the value.
func CheckPassportSeries(s string) bool {
	return passportSeriesRegex.MatchString(s)
}

// CheckUniversity requires Cyrillic letters, spaces, dots and hyphens only,
// and the word "университет" somewhere in the name.
func CheckUniversity(s string) bool {
	return universityRegex.MatchString(s) && strings.Contains(s, UniversityMarker)
}

// CheckAge accepts integers in (0, 150].
func CheckAge(n Number) bool {
	return inBodyRange(n)
}

// CheckPoliticalViews requires Cyrillic letters, spaces and dots only.
func CheckPoliticalViews(s string) bool {
	return viewsRegex.MatchString(s)
}

// CheckWorldview uses the same format as CheckPoliticalViews.
func CheckWorldview(s string) bool {
	return viewsRegex.MatchString(s)
}

// CheckAddress requires Cyrillic letters, digits, spaces and dots only, and
// the "ул. " street prefix.
func CheckAddress(s string) bool {
	return addressRegex.MatchString(s) && strings.HasPrefix(s, StreetPrefix)
}

func inBodyRange(n Number) bool {
	v, ok := n.Int()
	if !ok {
		return false
	}
	return v > MinBodyValue && v <= MaxBodyValue
}
