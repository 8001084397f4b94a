package consumption

import (
	"github.com/cockroachdb/errors"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

const (
	DAYS_PER_YEAR  = 365
	DAYS_PER_MONTH = 30
)

// Window is a trailing slice of a car's history. The first record is the
// anchor: the baseline the remaining records are measured against.
type Window struct {
	Records     []models.FillUpRecord
	ElapsedDays int
}

// SelectWindow picks the records dated after latest-days, plus the record
// immediately preceding them. If every record falls inside the window the
// oldest one becomes the anchor.
func SelectWindow(records []models.FillUpRecord, days int) (Window, error) {
	if days < 1 {
		return Window{}, errors.Newf("window must span at least one day, got %d", days)
	}
	if len(records) < 2 {
		return Window{}, errors.Wrapf(ErrInsufficientHistory, "window needs at least 2 records, got %d", len(records))
	}

	latest := records[len(records)-1]
	cutoff := latest.Date.AddDays(-days)

	start := len(records) - 1
	for start > 0 && records[start-1].Date.After(cutoff) {
		start--
	}
	anchor := max(start-1, 0)

	selected := records[anchor:]
	return Window{
		Records:     selected,
		ElapsedDays: latest.Date.DaysSince(selected[0].Date),
	}, nil
}

func (w Window) Anchor() models.FillUpRecord {
	return w.Records[0]
}

func (w Window) Latest() models.FillUpRecord {
	return w.Records[len(w.Records)-1]
}

// Distance is the distance travelled after the anchor.
func (w Window) Distance() float64 {
	return w.Latest().Distance - w.Anchor().Distance
}

// Cost sums price times amount of every record after the anchor.
func (w Window) Cost() float64 {
	total := 0.0
	for _, r := range w.Records[1:] {
		total += r.Price * r.Amount
	}
	return total
}

// ProjectYearlyDistance extrapolates the window's distance to a full year,
// dropping any fractional remainder.
func (w Window) ProjectYearlyDistance() (int64, error) {
	if w.ElapsedDays <= 0 {
		return 0, errors.Wrap(ErrInsufficientHistory, "window spans zero days")
	}
	return truncate(DAYS_PER_YEAR * w.Distance() / float64(w.ElapsedDays)), nil
}

// ProjectMonthlyCosts extrapolates the window's cost to a 30 day month.
func (w Window) ProjectMonthlyCosts() (float64, error) {
	if w.ElapsedDays <= 0 {
		return 0, errors.Wrap(ErrInsufficientHistory, "window spans zero days")
	}
	return round(DAYS_PER_MONTH * w.Cost() / float64(w.ElapsedDays)), nil
}
