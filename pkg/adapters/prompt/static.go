package prompt

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/aretw0/airfetch/pkg/core"
)

// CustomFilterID identifies filter windows derived from a date phrase.
const CustomFilterID = "custom"

// Static answers the filter prompt without a terminal. Answer may be a
// filter ID ("week"), its position in the list ("3") or a date phrase
// ("since last monday", "10 days ago").
type Static struct {
	Answer string
	Now    func() time.Time
}

// NewStatic creates a chooser that always gives answer.
func NewStatic(answer string) *Static {
	return &Static{Answer: answer}
}

// Choose implements core.Chooser.
func (s *Static) Choose(_ context.Context, items []core.FilterOption, _ func(core.FilterOption) string) (core.FilterOption, error) {
	answer := strings.TrimSpace(s.Answer)
	if answer == "" {
		return core.FilterOption{}, core.ErrNoSelection
	}

	for _, it := range items {
		if strings.EqualFold(it.ID, answer) {
			return it, nil
		}
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(items) {
			return core.FilterOption{}, fmt.Errorf("filter %d out of range 1-%d", n, len(items))
		}
		return items[n-1], nil
	}

	return s.parsePhrase(answer)
}

func (s *Static) parsePhrase(answer string) (core.FilterOption, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(answer, now)
	if err != nil {
		return core.FilterOption{}, fmt.Errorf("failed to parse filter %q: %w", answer, err)
	}
	if r == nil {
		return core.FilterOption{}, fmt.Errorf("unrecognized filter %q", answer)
	}

	days := max(int(math.Ceil(now.Sub(r.Time).Hours()/24)), 1)
	return core.FilterOption{
		ID:    CustomFilterID,
		Label: fmt.Sprintf("Notes updated since %s", r.Time.Format("2006-01-02")),
		Days:  min(days, core.FilterAllDays),
	}, nil
}

var _ core.Chooser[core.FilterOption] = (*Static)(nil)
