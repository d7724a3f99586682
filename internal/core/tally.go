package core

import "encoding/json"

// Tally counts records per outcome for one batch.
// The zero value is an empty tally ready for use.
type Tally struct {
	Total int
	Valid int

	failures [numFailureCategories]int
}

// Add records one classified record.
func (t *Tally) Add(c Category) {
	t.Total++
	if c.IsValid() {
		t.Valid++
		return
	}
	if c > CategoryValid && int(c) <= numFailureCategories {
		t.failures[c-1]++
	}
}

// Count returns the number of records with the given outcome.
func (t Tally) Count(c Category) int {
	if c.IsValid() {
		return t.Valid
	}
	if c < CategoryValid || int(c) > numFailureCategories {
		return 0
	}
	return t.failures[c-1]
}

// Invalid returns the number of records that failed any rule.
func (t Tally) Invalid() int {
	return t.Total - t.Valid
}

// CategoryCount pairs a failure category with its count.
type CategoryCount struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// Breakdown returns the failure counts in evaluation order.
func (t Tally) Breakdown() []CategoryCount {
	out := make([]CategoryCount, 0, numFailureCategories)
	for _, c := range FailureCategories {
		out = append(out, CategoryCount{Category: c, Label: c.Label(), Count: t.Count(c)})
	}
	return out
}

// MarshalJSON encodes the tally with per-category counts in evaluation
// order, the same order reports use.
func (t Tally) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total   int             `json:"total"`
		Valid   int             `json:"valid"`
		Invalid int             `json:"invalid"`
		Errors  []CategoryCount `json:"errors"`
	}{
		Total:   t.Total,
		Valid:   t.Valid,
		Invalid: t.Invalid(),
		Errors:  t.Breakdown(),
	})
}
