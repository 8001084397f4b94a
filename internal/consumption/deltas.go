package consumption

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

// Deltas derives one entry per pair of adjacent records. The records must be
// in ascending date order with strictly increasing distance.
func Deltas(records []models.FillUpRecord) ([]models.FillUpEntry, error) {
	if len(records) < 2 {
		return nil, errors.Wrapf(ErrInsufficientHistory, "need at least 2 records, got %d", len(records))
	}

	entries := make([]models.FillUpEntry, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		entry, err := delta(records[i-1], records[i])
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func delta(earlier, later models.FillUpRecord) (models.FillUpEntry, error) {
	distance := later.Distance - earlier.Distance
	if distance <= 0 {
		return models.FillUpEntry{}, errors.Wrapf(ErrInvalidDelta,
			"distance %v on %s does not exceed %v on %s", later.Distance, later.Date, earlier.Distance, earlier.Date)
	}

	totalPrice := later.Price * later.Amount
	return models.FillUpEntry{
		Date:          later.Date,
		Distance:      distance,
		TotalDistance: later.Distance,
		Amount:        later.Amount,
		Price:         later.Price,
		Consumption:   round(100 * later.Amount / distance),
		TotalPrice:    round(totalPrice),
		CostsPer100:   round(100 * totalPrice / distance),
	}, nil
}

// round rounds half away from zero to two decimal places.
func round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func truncate(value float64) int64 {
	return decimal.NewFromFloat(value).Truncate(0).IntPart()
}
