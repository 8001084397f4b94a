package consumption

import (
	"slices"
	"strings"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

// TieBreak decides which price is kept when two records share a date.
type TieBreak func(current, candidate float64) float64

// LastCarWins keeps the price seen last in fold order: cars by ascending id,
// records in their stored order.
func LastCarWins(_, candidate float64) float64 {
	return candidate
}

// MergePriceHistory folds every car's records into one price per date,
// ascending by date. Records with a non-positive price are left out.
func MergePriceHistory(cars []models.CarRecords, tieBreak TieBreak) []models.PriceHistoryPoint {
	ordered := slices.Clone(cars)
	slices.SortStableFunc(ordered, func(a, b models.CarRecords) int {
		return strings.Compare(a.CarId, b.CarId)
	})

	byDay := make(map[int64]models.PriceHistoryPoint)
	for _, car := range ordered {
		for _, r := range car.Records {
			if r.Price <= 0 {
				continue
			}
			day := r.Date.Unix()
			if current, ok := byDay[day]; ok {
				current.Price = tieBreak(current.Price, r.Price)
				byDay[day] = current
			} else {
				byDay[day] = models.PriceHistoryPoint{Date: r.Date, Price: r.Price}
			}
		}
	}

	points := make([]models.PriceHistoryPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b models.PriceHistoryPoint) int {
		return a.Date.Compare(b.Date.Time)
	})
	return points
}

// ToPriceHistory splits the points into the parallel arrays the chart expects.
func ToPriceHistory(points []models.PriceHistoryPoint) models.PriceHistory {
	history := models.PriceHistory{
		Labels: make([]string, 0, len(points)),
		Values: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		history.Labels = append(history.Labels, p.Date.String())
		history.Values = append(history.Values, p.Price)
	}
	return history
}
