package core

import (
	"context"
	"fmt"
)

// FilterAllDays is the sentinel threshold meaning "do not filter by recency".
const FilterAllDays = 9999

// FilterOption selects which records to pull by their UpdatedIn value.
type FilterOption struct {
	ID    string
	Label string
	Days  int
}

// All reports whether the option disables filtering.
func (f FilterOption) All() bool {
	return f.Days == FilterAllDays
}

// String implements fmt.Stringer.
func (f FilterOption) String() string {
	return f.ID
}

// Built-in filter windows, in presentation order.
var (
	FilterDay       = FilterOption{ID: "day", Label: "Notes updated today", Days: 1}
	FilterThreeDays = FilterOption{ID: "threeDays", Label: "Notes updated in the past 3 days", Days: 3}
	FilterWeek      = FilterOption{ID: "week", Label: "Notes updated in the past week", Days: 7}
	FilterTwoWeeks  = FilterOption{ID: "twoWeeks", Label: "Notes updated in the past two weeks", Days: 14}
	FilterMonth     = FilterOption{ID: "month", Label: "Notes updated in the past month", Days: 30}
	FilterAll       = FilterOption{ID: "all", Label: "All notes", Days: FilterAllDays}
)

// FilterOptions returns the fixed set of choices offered to the user.
func FilterOptions() []FilterOption {
	return []FilterOption{FilterDay, FilterThreeDays, FilterWeek, FilterTwoWeeks, FilterMonth, FilterAll}
}

// FilterByID looks up a built-in option.
func FilterByID(id string) (FilterOption, bool) {
	for _, o := range FilterOptions() {
		if o.ID == id {
			return o, true
		}
	}
	return FilterOption{}, false
}

// FilterLabel renders an option the way the selector lists it ("3. Notes updated ...").
func FilterLabel(f FilterOption) string {
	for i, o := range FilterOptions() {
		if o == f {
			return fmt.Sprintf("%d. %s", i+1, o.Label)
		}
	}
	return f.Label
}

// SelectFilter asks the chooser for one of the built-in options.
// A dismissed chooser yields ErrNoSelection and no option.
func SelectFilter(ctx context.Context, chooser Chooser[FilterOption]) (FilterOption, error) {
	choice, err := chooser.Choose(ctx, FilterOptions(), FilterLabel)
	if err != nil {
		return FilterOption{}, err
	}
	if choice.ID == "" {
		return FilterOption{}, ErrNoSelection
	}
	return choice, nil
}
