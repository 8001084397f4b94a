package consumption

import (
	"github.com/cockroachdb/errors"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

type SummaryOptions struct {
	AnnualWindowDays  int
	MonthlyWindowDays int
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		AnnualWindowDays:  365,
		MonthlyWindowDays: 90,
	}
}

// BuildSummary computes the per-car figures from the full, ordered record set.
// Average consumption and costs per 100 cover the whole history; the distance
// and cost projections use trailing windows.
//
// Average consumption counts every fill-up amount, the first one included.
// Costs per 100 only count what was paid for the entries.
func BuildSummary(records []models.FillUpRecord, opts SummaryOptions) (models.CarSummary, error) {
	entries, err := Deltas(records)
	if err != nil {
		return models.CarSummary{}, err
	}
	return summarize(records, entries, opts)
}

func summarize(records []models.FillUpRecord, entries []models.FillUpEntry, opts SummaryOptions) (models.CarSummary, error) {
	first := records[0]
	last := records[len(records)-1]
	span := last.Distance - first.Distance

	totalAmount := 0.0
	for _, r := range records {
		totalAmount += r.Amount
	}
	totalPrice := 0.0
	for _, e := range entries {
		totalPrice += e.Price * e.Amount
	}

	annual, err := SelectWindow(records, opts.AnnualWindowDays)
	if err != nil {
		return models.CarSummary{}, errors.Wrap(err, "annual window")
	}
	distancePerYear, err := annual.ProjectYearlyDistance()
	if err != nil {
		return models.CarSummary{}, errors.Wrap(err, "annual window")
	}

	monthly, err := SelectWindow(records, opts.MonthlyWindowDays)
	if err != nil {
		return models.CarSummary{}, errors.Wrap(err, "monthly window")
	}
	costsPerMonth, err := monthly.ProjectMonthlyCosts()
	if err != nil {
		return models.CarSummary{}, errors.Wrap(err, "monthly window")
	}

	return models.CarSummary{
		AverageConsumption:    round(100 * totalAmount / span),
		TotalDistance:         last.Distance,
		FirstTotalDistance:    first.Distance,
		DistancePerYear:       distancePerYear,
		PreviousCostsPerMonth: costsPerMonth,
		CostsPer100:           round(100 * totalPrice / span),
	}, nil
}

// Analysis bundles everything derived from one car's records.
type Analysis struct {
	Records []models.FillUpRecord
	Entries []models.FillUpEntry
	Summary models.CarSummary
}

// Analyze loads a car and derives its entries and summary in one pass.
func Analyze(source RecordSource, carId string, opts SummaryOptions) (*Analysis, error) {
	records, err := LoadRecords(source, carId)
	if err != nil {
		return nil, err
	}
	return AnalyzeRecords(records, carId, opts)
}

// AnalyzeRecords derives entries and summary from records that are already
// loaded and ordered.
func AnalyzeRecords(records []models.FillUpRecord, carId string, opts SummaryOptions) (*Analysis, error) {
	entries, err := Deltas(records)
	if err != nil {
		return nil, errors.Wrapf(err, "car %s", carId)
	}

	summary, err := summarize(records, entries, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "car %s", carId)
	}

	return &Analysis{Records: records, Entries: entries, Summary: summary}, nil
}
