package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one person's entry as read from the input file.
// Records are treated as immutable values once decoded.
type Record struct {
	Telephone      string `json:"telephone" yaml:"telephone"`
	Weight         Number `json:"weight" yaml:"weight"`
	INN            string `json:"inn" yaml:"inn"`
	PassportSeries string `json:"passport_series" yaml:"passport_series"`
	University     string `json:"university" yaml:"university"`
	Age            Number `json:"age" yaml:"age"`
	PoliticalViews string `json:"political_views" yaml:"political_views"`
	Worldview      string `json:"worldview" yaml:"worldview"`
	Address        string `json:"address" yaml:"address"`
}

// RecordFields lists the input keys in evaluation order.
// Every key must be present in an input object.
var RecordFields = []string{
	"telephone",
	"weight",
	"inn",
	"passport_series",
	"university",
	"age",
	"political_views",
	"worldview",
	"address",
}

// Number holds a numeric field exactly as it appeared in the input.
//
// Keeping the literal lets a non-numeric value reach the field rule (where it
// is a validation failure) instead of failing the whole decode, and lets the
// output reproduce the value as given.
type Number struct {
	raw json.RawMessage
}

// NewNumber returns a Number holding an integer literal.
func NewNumber(v int) Number {
	return Number{raw: json.RawMessage(strconv.Itoa(v))}
}

// NumberFromLiteral returns a Number holding a raw JSON literal such as
// `70`, `70.5`, `"70"` or `null`.
func NumberFromLiteral(lit string) Number {
	return Number{raw: json.RawMessage(lit)}
}

// Int parses the value as an integer.
//
// JSON integers parse directly, non-integral numbers are truncated toward
// zero, and JSON strings are trimmed and parsed as base-10 integers.
// Anything else reports ok=false.
func (n Number) Int() (int, bool) {
	raw := bytes.TrimSpace(n.raw)
	if len(raw) == 0 {
		return 0, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return v, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if v, err := strconv.Atoi(string(raw)); err == nil {
			return v, true
		}
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		f = math.Trunc(f)
		if f > math.MaxInt32 || f < math.MinInt32 {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// Key returns the integer value used for ordering, or 0 if the value does
// not parse. Only validated records are sorted, so 0 is never observed there.
func (n Number) Key() int {
	v, _ := n.Int()
	return v
}

// String renders the value the way it appears in block output: string
// literals unquoted, everything else as written.
func (n Number) String() string {
	raw := bytes.TrimSpace(n.raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// IsZero reports whether the value was never set.
func (n Number) IsZero() bool {
	return len(n.raw) == 0
}

// UnmarshalJSON keeps the literal for later parsing.
func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = append(n.raw[:0], b...)
	return nil
}

// MarshalJSON writes the literal back unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// MarshalYAML emits an integer when the value parses, otherwise the
// textual form.
func (n Number) MarshalYAML() (any, error) {
	raw := bytes.TrimSpace(n.raw)
	if len(raw) > 0 && raw[0] != '"' {
		if v, err := strconv.Atoi(string(raw)); err == nil {
			return v, nil
		}
	}
	return n.String(), nil
}

// Category is the outcome of validating one record: either CategoryValid or
// the field that failed first.
type Category int

const (
	CategoryValid Category = iota
	CategoryTelephone
	CategoryWeight
	CategoryINN
	CategoryPassportSeries
	CategoryUniversity
	CategoryAge
	CategoryPoliticalViews
	CategoryWorldview
	CategoryAddress
)

// numFailureCategories is the number of field failure categories.
const numFailureCategories = int(CategoryAddress)

// FailureCategories lists the failure categories in evaluation order.
var FailureCategories = []Category{
	CategoryTelephone,
	CategoryWeight,
	CategoryINN,
	CategoryPassportSeries,
	CategoryUniversity,
	CategoryAge,
	CategoryPoliticalViews,
	CategoryWorldview,
	CategoryAddress,
}

var categoryTags = [...]string{
	CategoryValid:          "valid",
	CategoryTelephone:      "error_telephone_number",
	CategoryWeight:         "error_weight",
	CategoryINN:            "error_inn",
	CategoryPassportSeries: "error_passport_series",
	CategoryUniversity:     "error_university",
	CategoryAge:            "error_age",
	CategoryPoliticalViews: "error_political_views",
	CategoryWorldview:      "error_worldview",
	CategoryAddress:        "error_address",
}

var categoryLabels = [...]string{
	CategoryValid:          "Valid",
	CategoryTelephone:      "Invalid telephone number",
	CategoryWeight:         "Invalid weight",
	CategoryINN:            "Invalid INN",
	CategoryPassportSeries: "Invalid passport series",
	CategoryUniversity:     "Invalid university name",
	CategoryAge:            "Invalid age",
	CategoryPoliticalViews: "Invalid political views",
	CategoryWorldview:      "Invalid worldview",
	CategoryAddress:        "Invalid address",
}

// String returns the outcome tag, e.g. "error_weight".
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryTags) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryTags[c]
}

// Label returns a human-readable description for summaries.
func (c Category) Label() string {
	if c < 0 || int(c) >= len(categoryLabels) {
		return c.String()
	}
	return categoryLabels[c]
}

// Field returns the input key the category refers to, or "" for CategoryValid.
func (c Category) Field() string {
	if c <= CategoryValid || int(c) > numFailureCategories {
		return ""
	}
	return RecordFields[c-1]
}

// IsValid reports whether the category is the valid outcome.
func (c Category) IsValid() bool {
	return c == CategoryValid
}

// MarshalText encodes the category as its tag.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a tag produced by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category for a tag produced by String.
func ParseCategory(tag string) (Category, error) {
	for i, t := range categoryTags {
		if t == tag {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", tag)
}

// SortKey selects the numeric field valid records are ordered by.
type SortKey int

const (
	SortNone SortKey = iota
	SortByWeight
	SortByAge
)

// String returns the flag spelling of the key.
func (k SortKey) String() string {
	switch k {
	case SortNone:
		return "none"
	case SortByWeight:
		return "weight"
	case SortByAge:
		return "age"
	default:
		return fmt.Sprintf("sortkey(%d)", int(k))
	}
}

// MarshalText encodes the key as its flag spelling.
func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a key name or menu code.
func (k *SortKey) UnmarshalText(b []byte) error {
	parsed, err := ParseSortKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSortKey accepts the menu codes 0, 1, 2 or the names none, weight, age.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "none":
		return SortNone, nil
	case "1", "weight":
		return SortByWeight, nil
	case "2", "age":
		return SortByAge, nil
	default:
		return SortNone, fmt.Errorf("invalid sort key %q (use none, weight or age)", s)
	}
}

// RunPhase indicates the current stage of batch processing.
type RunPhase string

const (
	PhaseReading    RunPhase = "reading"
	PhaseValidating RunPhase = "validating"
	PhaseSorting    RunPhase = "sorting"
	PhaseWriting    RunPhase = "writing"
	PhaseComplete   RunPhase = "complete"
)

// Progress represents the current state of a batch run.
type Progress struct {
	Phase      RunPhase
	TotalRows  int
	CurrentRow int
}

// Percent returns the progress as a percentage (0-100).
func (p Progress) Percent() int {
	if p.TotalRows <= 0 {
		return 0
	}
	return (p.CurrentRow * 100) / p.TotalRows
}

// ProgressCallback is called as records are classified.
type ProgressCallback func(Progress)

// Timings records how long each phase of a run took.
type Timings struct {
	Validate time.Duration `json:"validate"`
	Sort     time.Duration `json:"sort"`
	Write    time.Duration `json:"write,omitempty"`
}
