package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

const DEFAULT_BUCKET_SIZE = 10

func byPrice(a, b models.PriceHistoryPoint) int {
	return cmp.Compare(a.Price, b.Price)
}

// Derive summarises a merged price history. Prices are bucketed in cents,
// bucketSize cents per bucket. Returns nil when there are no points.
func Derive(points []models.PriceHistoryPoint, bucketSize int) *models.PriceStatistics {
	if len(points) == 0 {
		return nil
	}
	if bucketSize <= 0 {
		bucketSize = DEFAULT_BUCKET_SIZE
	}

	n := float64(len(points))
	sum := 0.0
	distribution := make(map[string]int)
	for _, p := range points {
		sum += p.Price
		distribution[bucket(p.Price, bucketSize)]++
	}
	mean := sum / n

	deviation := 0.0
	for _, p := range points {
		deviation += (p.Price - mean) * (p.Price - mean)
	}

	return &models.PriceStatistics{
		Lowest:            slices.MinFunc(points, byPrice).Price,
		Highest:           slices.MaxFunc(points, byPrice).Price,
		Average:           decimal.NewFromFloat(mean).Round(3).InexactFloat64(),
		StandardDeviation: math.Sqrt(deviation / n),
		Distribution:      distribution,
	}
}

// bucket names the cent range a price falls into, e.g. "160-169".
func bucket(price float64, size int) string {
	start := int(math.Round(price*100)) / size * size
	return fmt.Sprintf("%d-%d", start, start+size-1)
}
