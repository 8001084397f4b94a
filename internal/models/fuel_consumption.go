package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawRecord is a fill-up as stored on disk. Pointer fields make an absent
// value distinguishable from a zero one.
type RawRecord struct {
	Date     *string  `json:"date" validate:"required"`
	Distance *float64 `json:"distance" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required,gt=0"`
	Price    *float64 `json:"price" validate:"required"`
}

// FillUpRecord is one fuel purchase. Distance is the cumulative odometer reading.
type FillUpRecord struct {
	Date     Date    `json:"date"`
	Distance float64 `json:"distance"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
}

// FillUpEntry holds the statistics for the interval between two consecutive fill-ups.
type FillUpEntry struct {
	Date          Date    `json:"date"`
	Distance      float64 `json:"distance"`
	TotalDistance float64 `json:"total_distance"`
	Amount        float64 `json:"amount"`
	Price         float64 `json:"price"`
	Consumption   float64 `json:"consumption"`
	TotalPrice    float64 `json:"total_price"`
	CostsPer100   float64 `json:"costs_per_100"`
}

type CarSummary struct {
	AverageConsumption    float64 `json:"average_consumption"`
	TotalDistance         float64 `json:"total_distance"`
	FirstTotalDistance    float64 `json:"first_total_distance"`
	DistancePerYear       int64   `json:"distance_per_year"`
	PreviousCostsPerMonth float64 `json:"previous_costs_per_month"`
	CostsPer100           float64 `json:"costs_per_100"`
}

type CarProperties struct {
	Name         string  `json:"name"`
	BaseDistance float64 `json:"base_distance"`
}

// CarRecords pairs a car id with its chronologically ordered records.
type CarRecords struct {
	CarId   string
	Records []FillUpRecord
}

type PriceHistoryPoint struct {
	Date  Date    `json:"date"`
	Price float64 `json:"price"`
}

// PriceHistory is the chart series: parallel arrays of date labels and prices.
type PriceHistory struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type PriceStatistics struct {
	Lowest            float64        `json:"lowest"`
	Highest           float64        `json:"highest"`
	Average           float64        `json:"average"`
	StandardDeviation float64        `json:"standard_deviation"`
	Distribution      map[string]int `json:"distribution"`
}

// FormattedEntry is a FillUpEntry rendered for display.
type FormattedEntry struct {
	Date          string `json:"date"`
	Distance      string `json:"distance"`
	TotalDistance string `json:"total_distance"`
	Amount        string `json:"amount"`
	Price         string `json:"price"`
	Consumption   string `json:"consumption"`
	TotalPrice    string `json:"total_price"`
	CostsPer100   string `json:"costs_per_100"`
}

type FormattedProperties struct {
	Name                  string `json:"name"`
	AverageConsumption    string `json:"average_consumption"`
	TotalDistance         string `json:"total_distance"`
	FirstTotalDistance    string `json:"first_total_distance"`
	TrackedDistance       string `json:"tracked_distance"`
	OverallDistance       string `json:"overall_distance"`
	DistancePerYear       string `json:"distance_per_year"`
	PreviousCostsPerMonth string `json:"previous_costs_per_month"`
	CostsPer100           string `json:"costs_per_100"`
}

// CarPage is the payload handed to the renderer for one car.
type CarPage struct {
	CarId      string              `json:"car_id"`
	Title      string              `json:"title"`
	Currency   string              `json:"currency"`
	Properties FormattedProperties `json:"properties"`
	Entries    []FormattedEntry    `json:"entries"`
}

// IndexPage is the payload handed to the renderer for the overview.
type IndexPage struct {
	Title        string           `json:"title"`
	Currency     string           `json:"currency"`
	CarIds       []string         `json:"car_ids"`
	PriceHistory PriceHistory     `json:"price_history"`
	Statistics   *PriceStatistics `json:"statistics,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

type CarFailure struct {
	CarId string `json:"car_id"`
	Error string `json:"error"`
}

type RunReport struct {
	RunId    string        `json:"run_id"`
	Cars     []string      `json:"cars"`
	Failures []CarFailure  `json:"failures,omitempty"`
	Entries  int           `json:"entries"`
	Duration time.Duration `json:"duration"`
}

func ToJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
