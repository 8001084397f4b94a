package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomhuettmann/fuel-consumption/internal"
	"github.com/tomhuettmann/fuel-consumption/internal/config"
	"github.com/tomhuettmann/fuel-consumption/internal/consumption"
	"github.com/tomhuettmann/fuel-consumption/internal/format"
	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

var goodCars = map[string]string{
	"golf/fuel_consumptions.json": `[
		{"date": "01.02.2024", "distance": 500, "amount": 40, "price": 1.60},
		{"date": "01.01.2024", "distance": 0, "amount": 5, "price": 1.50}
	]`,
	"golf/car_properties.json": `{"name": "VW Golf", "base_distance": 42000}`,
	"astra/fuel_consumptions.json": `[
		{"date": "05.01.2024", "distance": 1000, "amount": 30, "price": 1.70},
		{"date": "01.02.2024", "distance": 1600, "amount": 36, "price": 1.65},
		{"date": "01.03.2024", "distance": 2200, "amount": 39, "price": 1.75}
	]`,
}

var badCars = map[string]string{
	"stalled/fuel_consumptions.json": `[
		{"date": "01.01.2024", "distance": 100, "amount": 5, "price": 1.50},
		{"date": "01.02.2024", "distance": 100, "amount": 40, "price": 1.60}
	]`,
	"new/fuel_consumptions.json": `[
		{"date": "01.01.2024", "distance": 100, "amount": 5, "price": 1.50}
	]`,
	"typo/fuel_consumptions.json": `[
		{"date": "01.01.2024", "distance": 100, "amount": 5, "price": 1.50},
		{"date": "01.13.2024", "distance": 200, "amount": 5, "price": 1.50}
	]`,
}

func setupData(t *testing.T, sets ...map[string]string) string {
	dataDir := t.TempDir()
	for _, files := range sets {
		for name, content := range files {
			path := filepath.Join(dataDir, filepath.FromSlash(name))
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		}
	}
	return dataDir
}

func setupGenerator(t *testing.T, dataDir, policy string) (*Generator, *config.Config) {
	cfg := config.Default()
	cfg.DataDir = dataDir
	cfg.OutputDir = t.TempDir()
	cfg.FailurePolicy = policy
	cfg.MetricsFile = filepath.Join(t.TempDir(), "fuel_site.prom")
	require.NoError(t, cfg.Validate())

	renderer, err := NewRenderer(format.New(cfg.ThousandsSeparator))
	require.NoError(t, err)

	g := NewGenerator(cfg, internal.NewCarStore(cfg.DataDir), internal.NewSiteWriter(cfg.OutputDir), renderer)
	g.now = func() time.Time { return time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC) }
	return g, cfg
}

func openPage(t *testing.T, path string) *goquery.Document {
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	doc, err := goquery.NewDocumentFromReader(file)
	require.NoError(t, err)
	return doc
}

func TestGenerate(t *testing.T) {
	g, cfg := setupGenerator(t, setupData(t, goodCars), config.POLICY_ABORT)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)

	t.Run("Report", func(t *testing.T) {
		assert.NotEmpty(t, report.RunId)
		assert.Equal(t, []string{"astra", "golf"}, report.Cars)
		assert.Empty(t, report.Failures)
		assert.Equal(t, 3, report.Entries)
	})

	t.Run("Car page", func(t *testing.T) {
		doc := openPage(t, filepath.Join(cfg.OutputDir, "car", "golf.html"))
		assert.Equal(t, "VW Golf", doc.Find("h1").Text())
		assert.Equal(t, "9.00", doc.Find("#average-consumption").Text()) // 100 * 45 / 500
		assert.Equal(t, "€ 12.80", doc.Find("#costs-per-100").Text())
		assert.Equal(t, "5.887", doc.Find("#distance-per-year").Text()) // 365 * 500 / 31
		assert.Equal(t, "€ 61.94", doc.Find("#costs-per-month").Text()) // 30 * 64 / 31
		assert.Equal(t, "500", doc.Find("#tracked-distance").Text())
		assert.Equal(t, "42.500", doc.Find("#overall-distance").Text())
		assert.Equal(t, 1, doc.Find("#entries tbody tr").Length())
	})

	t.Run("Entries are newest first", func(t *testing.T) {
		doc := openPage(t, filepath.Join(cfg.OutputDir, "car", "astra.html"))
		rows := doc.Find("#entries tbody tr")
		require.Equal(t, 2, rows.Length())
		assert.Equal(t, "01.03.2024", rows.First().Find("td").First().Text())
		assert.Equal(t, "01.02.2024", rows.Last().Find("td").First().Text())
		assert.Equal(t, "astra", doc.Find("h1").Text())
	})

	t.Run("Car payload", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "car", "golf.json"))
		require.NoError(t, err)

		var page models.CarPage
		require.NoError(t, json.Unmarshal(data, &page))
		assert.Equal(t, "golf", page.CarId)
		assert.Equal(t, "9.00", page.Properties.AverageConsumption)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, models.FormattedEntry{
			Date:          "01.02.2024",
			Distance:      "500",
			TotalDistance: "500",
			Amount:        "40.00",
			Price:         "1.60",
			Consumption:   "8.00",
			TotalPrice:    "64.00",
			CostsPer100:   "12.80",
		}, page.Entries[0])
	})

	t.Run("Index page", func(t *testing.T) {
		doc := openPage(t, filepath.Join(cfg.OutputDir, "index.html"))
		var links []string
		doc.Find("#cars a").Each(func(_ int, s *goquery.Selection) {
			links = append(links, s.AttrOr("href", ""))
		})
		assert.Equal(t, []string{"car/astra.html", "car/golf.html"}, links)
		assert.Equal(t, `["01.01.2024","05.01.2024","01.02.2024","01.03.2024"]`, doc.Find("#labels").AttrOr("value", ""))
		assert.Equal(t, `[1.5,1.7,1.6,1.75]`, doc.Find("#data").AttrOr("value", ""))
		assert.Equal(t, "€", doc.Find("#currency").AttrOr("value", ""))
		assert.Contains(t, doc.Find("#statistics").Text(), "€ 1.50")
	})

	t.Run("Index payload", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.json"))
		require.NoError(t, err)

		var index models.IndexPage
		require.NoError(t, json.Unmarshal(data, &index))
		assert.Equal(t, []string{"astra", "golf"}, index.CarIds)
		assert.Equal(t, []float64{1.5, 1.7, 1.6, 1.75}, index.PriceHistory.Values)
		require.NotNil(t, index.Statistics)
		assert.Equal(t, 1.75, index.Statistics.Highest)
	})

	t.Run("Static assets", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, "static", "chart.js"))
	})

	t.Run("Metrics", func(t *testing.T) {
		data, err := os.ReadFile(cfg.MetricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "fuel_site_cars_written 2")
		assert.Contains(t, string(data), "fuel_site_cars_failed 0")
		assert.Contains(t, string(data), "fuel_site_entries_rendered 3")
	})

	t.Run("No broken links", func(t *testing.T) {
		broken, err := CheckLinks(cfg.OutputDir)
		require.NoError(t, err)
		assert.Empty(t, broken)
	})
}

func TestGenerateAbortPolicy(t *testing.T) {
	g, cfg := setupGenerator(t, setupData(t, goodCars, badCars), config.POLICY_ABORT)

	report, err := g.Generate(context.Background())
	require.Error(t, err)

	t.Run("Every failure is reported", func(t *testing.T) {
		assert.ErrorIs(t, err, consumption.ErrInvalidDelta)
		assert.ErrorIs(t, err, consumption.ErrInsufficientHistory)
		assert.ErrorIs(t, err, consumption.ErrMalformedRecord)
		assert.Contains(t, err.Error(), "3 of 5 cars failed")

		require.NotNil(t, report)
		var failed []string
		for _, f := range report.Failures {
			failed = append(failed, f.CarId)
		}
		assert.Equal(t, []string{"new", "stalled", "typo"}, failed)
	})

	t.Run("Nothing is written", func(t *testing.T) {
		entries, err := os.ReadDir(cfg.OutputDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Failure metrics are still written", func(t *testing.T) {
		data, err := os.ReadFile(cfg.MetricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "fuel_site_cars_failed 3")
		assert.Contains(t, string(data), "fuel_site_last_success_timestamp_seconds 0")
	})
}

func TestGenerateSkipPolicy(t *testing.T) {
	g, cfg := setupGenerator(t, setupData(t, goodCars, badCars), config.POLICY_SKIP)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"astra", "golf"}, report.Cars)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, "new", report.Failures[0].CarId)
	assert.True(t, strings.Contains(report.Failures[0].Error, "insufficient history"))

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "car", "golf.html"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "car", "stalled.html"))

	doc := openPage(t, filepath.Join(cfg.OutputDir, "index.html"))
	assert.Equal(t, 2, doc.Find("#cars li").Length())

	t.Run("Failed cars still feed the price history", func(t *testing.T) {
		// stalled is folded after golf and wins 01.02.2024
		assert.Equal(t, `[1.5,1.7,1.9,1.75]`, doc.Find("#data").AttrOr("value", ""))
	})
}

func TestCarPage(t *testing.T) {
	g, _ := setupGenerator(t, t.TempDir(), config.POLICY_ABORT)

	date, err := models.ParseDate("01.02.2024")
	require.NoError(t, err)

	page := g.carPage("golf", &models.CarProperties{Name: "VW Golf"}, &consumption.Analysis{
		Entries: []models.FillUpEntry{{
			Date:          date,
			Distance:      512.4,
			TotalDistance: 12512.4,
			Amount:        41.255,
			Price:         1.639,
			Consumption:   8.05,
			TotalPrice:    67.62,
			CostsPer100:   13.2,
		}},
		Summary: models.CarSummary{TotalDistance: 12512.4, FirstTotalDistance: 12000},
	})

	require.Len(t, page.Entries, 1)
	assert.Equal(t, "41.255", page.Entries[0].Amount)
	assert.Equal(t, "1.639", page.Entries[0].Price)
	assert.Equal(t, "67.62", page.Entries[0].TotalPrice)
	assert.Equal(t, "13.20", page.Entries[0].CostsPer100)
	assert.Equal(t, "12.512", page.Entries[0].TotalDistance)
	assert.Equal(t, "512", page.Properties.TrackedDistance)
}

func TestGenerateCancelled(t *testing.T) {
	g, _ := setupGenerator(t, setupData(t, goodCars), config.POLICY_ABORT)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateWithoutCars(t *testing.T) {
	g, cfg := setupGenerator(t, t.TempDir(), config.POLICY_ABORT)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Cars)

	doc := openPage(t, filepath.Join(cfg.OutputDir, "index.html"))
	assert.Zero(t, doc.Find("#cars li").Length())
	assert.Zero(t, doc.Find("#statistics").Length())
}
