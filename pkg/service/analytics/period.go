package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
)

var (
	// ErrInvalidView is returned for views other than Week, Month, Year and All.
	ErrInvalidView = errors.New("invalid analytics view")
	// ErrInvalidMonth is returned when a month is not in YYYY-MM form.
	ErrInvalidMonth = errors.New("month must be YYYY-MM")
)

// MonthLayout is the format of a comparison month.
const MonthLayout = "2006-01"

// View is the granularity of an analytics period.
type View string

const (
	Week  View = "Week"
	Month View = "Month"
	Year  View = "Year"
	All   View = "All"
)

// ParseView accepts a view name in any case. Empty means Month.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return Month, nil
	case "week":
		return Week, nil
	case "year":
		return Year, nil
	case "all":
		return All, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

// Period is a view anchored on a day.
type Period struct {
	View   View      `json:"view"`
	Anchor time.Time `json:"anchor"`
}

// NewPeriod anchors v on the calendar day of anchor.
func NewPeriod(v View, anchor time.Time) Period {
	return Period{View: v, Anchor: transaction.DateOf(anchor)}
}

// Bounds returns the first and last day of the period, both inclusive.
// A week runs Sunday to Saturday. All has no bounds.
func (p Period) Bounds() (from, to *time.Time) {
	a := transaction.DateOf(p.Anchor)
	var start, end time.Time
	switch p.View {
	case Week:
		start = a.AddDate(0, 0, -int(a.Weekday()))
		end = start.AddDate(0, 0, 6)
	case Month:
		start = time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case Year:
		start = time.Date(a.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(a.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return nil, nil
	}
	return &start, &end
}

// Label names the period for report titles and file names.
func (p Period) Label() string {
	a := transaction.DateOf(p.Anchor)
	switch p.View {
	case Week:
		from, _ := p.Bounds()
		return "week-of-" + from.Format(transaction.DateLayout)
	case Month:
		return a.Format(MonthLayout)
	case Year:
		return a.Format("2006")
	}
	return "all"
}

// ParseMonth parses a YYYY-MM string into the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}
