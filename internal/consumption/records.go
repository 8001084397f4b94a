// Package consumption turns a car's raw fill-up log into derived statistics.
// Nothing in here performs I/O; records arrive through a RecordSource.
package consumption

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

var validate = validator.New()

type RecordSource interface {
	ReadRecords(carId string) ([]models.RawRecord, error)
}

// LoadRecords reads the raw records of a car and returns them in ascending date order.
func LoadRecords(source RecordSource, carId string) ([]models.FillUpRecord, error) {
	raw, err := source.ReadRecords(carId)
	if err != nil {
		return nil, err
	}

	records, err := ParseRecords(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "car %s", carId)
	}

	return SortRecords(records), nil
}

// ParseRecords validates and converts raw records, keeping their file order.
func ParseRecords(raw []models.RawRecord) ([]models.FillUpRecord, error) {
	records := make([]models.FillUpRecord, 0, len(raw))
	for i, r := range raw {
		if err := validate.Struct(r); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return nil, errors.Wrapf(ErrMalformedRecord, "record %d: field %s failed %q check",
					i, fieldErrs[0].Field(), fieldErrs[0].Tag())
			}
			return nil, errors.Wrapf(ErrMalformedRecord, "record %d: %v", i, err)
		}

		date, err := models.ParseDate(*r.Date)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedRecord, "record %d: %v", i, err)
		}

		records = append(records, models.FillUpRecord{
			Date:     date,
			Distance: *r.Distance,
			Amount:   *r.Amount,
			Price:    *r.Price,
		})
	}
	return records, nil
}

// SortRecords returns a copy ordered by ascending date. Records sharing a
// date keep their relative order.
func SortRecords(records []models.FillUpRecord) []models.FillUpRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.FillUpRecord) int {
		return a.Date.Compare(b.Date.Time)
	})
	return sorted
}
