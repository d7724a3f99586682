package core

// validation.go provides record-level validation.
//
// The Validator evaluates the field rules in a fixed order:
//
//	telephone, weight, inn, passport_series, university,
//	age, political_views, worldview, address
//
// Classify stops at the first failing field and reports exactly one
// category per record, which keeps the per-category tally mutually
// exclusive. ValidateAll walks every rule and is meant for diagnostics only.

import (
	"fmt"
)

// FieldError describes one field that failed its rule.
type FieldError struct {
	Category Category `json:"category"`
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Message  string   `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldRule binds a rule to the record field it checks.
type FieldRule struct {
	Category Category
	Message  string
	Value    func(Record) string
	Check    func(Record) bool
}

// DefaultRules returns the rule list in evaluation order.
func DefaultRules() []FieldRule {
	return []FieldRule{
		{
			Category: CategoryTelephone,
			Message:  "must match +D-(DDD)-DDD-DD-DD",
			Value:    func(r Record) string { return r.Telephone },
			Check:    func(r Record) bool { return CheckTelephone(r.Telephone) },
		},
		{
			Category: CategoryWeight,
			Message:  fmt.Sprintf("must be an integer in (%d, %d]", MinBodyValue, MaxBodyValue),
			Value:    func(r Record) string { return r.Weight.String() },
			Check:    func(r Record) bool { return CheckWeight(r.Weight) },
		},
		{
			Category: CategoryINN,
			Message:  "must start with 12 digits",
			Value:    func(r Record) string { return r.INN },
			Check:    func(r Record) bool { return CheckINN(r.INN) },
		},
		{
			Category: CategoryPassportSeries,
			Message:  "must match DD DD",
			Value:    func(r Record) string { return r.PassportSeries },
			Check:    func(r Record) bool { return CheckPassportSeries(r.PassportSeries) },
		},
		{
			Category: CategoryUniversity,
			Message:  fmt.Sprintf("must be Cyrillic text containing %q", UniversityMarker),
			Value:    func(r Record) string { return r.University },
			Check:    func(r Record) bool { return CheckUniversity(r.University) },
		},
		{
			Category: CategoryAge,
			Message:  fmt.Sprintf("must be an integer in (%d, %d]", MinBodyValue, MaxBodyValue),
			Value:    func(r Record) string { return r.Age.String() },
			Check:    func(r Record) bool { return CheckAge(r.Age) },
		},
		{
			Category: CategoryPoliticalViews,
			Message:  "must be Cyrillic text",
			Value:    func(r Record) string { return r.PoliticalViews },
			Check:    func(r Record) bool { return CheckPoliticalViews(r.PoliticalViews) },
		},
		{
			Category: CategoryWorldview,
			Message:  "must be Cyrillic text",
			Value:    func(r Record) string { return r.Worldview },
			Check:    func(r Record) bool { return CheckWorldview(r.Worldview) },
		},
		{
			Category: CategoryAddress,
			Message:  fmt.Sprintf("must be Cyrillic text starting with %q", StreetPrefix),
			Value:    func(r Record) string { return r.Address },
			Check:    func(r Record) bool { return CheckAddress(r.Address) },
		},
	}
}

// Validator classifies records against an ordered rule list.
// A Validator holds no per-record state and is safe for concurrent use.
type Validator struct {
	rules []FieldRule
}

// NewValidator creates a validator using DefaultRules.
func NewValidator() *Validator {
	return &Validator{rules: DefaultRules()}
}

// Classify returns the category of the first failing field, or
// CategoryValid if every rule passes.
func (v *Validator) Classify(r Record) Category {
	for _, rule := range v.rules {
		if !rule.Check(r) {
			return rule.Category
		}
	}
	return CategoryValid
}

// ValidateFirst returns the first failing field as a *FieldError, or nil.
func (v *Validator) ValidateFirst(r Record) error {
	for _, rule := range v.rules {
		if !rule.Check(r) {
			fe := rule.fieldError(r)
			return &fe
		}
	}
	return nil
}

// ValidateAll returns every failing field in evaluation order.
// This is useful for diagnostics that show all problems at once; batch
// tallies always use Classify.
func (v *Validator) ValidateAll(r Record) []FieldError {
	var errs []FieldError
	for _, rule := range v.rules {
		if !rule.Check(r) {
			errs = append(errs, rule.fieldError(r))
		}
	}
	return errs
}

func (rule FieldRule) fieldError(r Record) FieldError {
	return FieldError{
		Category: rule.Category,
		Field:    rule.Category.Field(),
		Value:    rule.Value(r),
		Message:  rule.Message,
	}
}
