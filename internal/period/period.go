package period

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used by configuration and
// report labels.
const DateLayout = "2006-01-02"

// Period is a named closed date interval. Both bounds are inclusive and
// carry no time-of-day component.
type Period struct {
	Name  string
	Start time.Time
	End   time.Time
}

// New builds a period from ISO dates.
func New(name, start, end string) (Period, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("parse %s start %q: %w", name, start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("parse %s end %q: %w", name, end, err)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("%s ends (%s) before it starts (%s)", name, end, start)
	}
	return Period{Name: name, Start: s, End: e}, nil
}

// MustNew is like New but panics on error. Intended for tests and constants.
func MustNew(name, start, end string) Period {
	p, err := New(name, start, end)
	if err != nil {
		panic(err)
	}
	return p
}

// Contains reports whether t falls on a calendar day inside the period.
func (p Period) Contains(t time.Time) bool {
	d := Truncate(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days covered, bounds included.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Span returns a period covering from the start of p to the end of other.
func (p Period) Span(name string, other Period) Period {
	return Period{Name: name, Start: p.Start, End: other.End}
}

// String returns "Name (start to end)".
func (p Period) String() string {
	return fmt.Sprintf("%s (%s to %s)", p.Name, p.Start.Format(DateLayout), p.End.Format(DateLayout))
}

// StartLabel returns the ISO start date.
func (p Period) StartLabel() string { return p.Start.Format(DateLayout) }

// EndLabel returns the ISO end date.
func (p Period) EndLabel() string { return p.End.Format(DateLayout) }

// Truncate drops the time-of-day of t, keeping its calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Buckets splits window into consecutive buckets of size days named
// "Week 1", "Week 2", ... The last bucket is clipped to the window end.
func Buckets(window Period, days int) []Period {
	if days <= 0 {
		days = 7
	}
	var out []Period
	cur := window.Start
	for n := 1; !cur.After(window.End); n++ {
		end := cur.AddDate(0, 0, days-1)
		if end.After(window.End) {
			end = window.End
		}
		out = append(out, Period{Name: fmt.Sprintf("Week %d", n), Start: cur, End: end})
		cur = end.AddDate(0, 0, 1)
	}
	return out
}

// Filter returns the items whose date, as reported by dateOf, falls inside p.
func Filter[T any](items []T, p Period, dateOf func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Contains(dateOf(it)) {
			out = append(out, it)
		}
	}
	return out
}
