package site

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomhuettmann/fuel-consumption/internal"
	"github.com/tomhuettmann/fuel-consumption/internal/config"
	"github.com/tomhuettmann/fuel-consumption/internal/consumption"
	"github.com/tomhuettmann/fuel-consumption/internal/format"
	"github.com/tomhuettmann/fuel-consumption/internal/models"
	"github.com/tomhuettmann/fuel-consumption/internal/stats"
)

type Generator struct {
	cfg       *config.Config
	store     internal.CarStore
	writer    internal.SiteWriter
	renderer  Renderer
	formatter format.Formatter
	now       func() time.Time
}

func NewGenerator(cfg *config.Config, store internal.CarStore, writer internal.SiteWriter, renderer Renderer) *Generator {
	return &Generator{
		cfg:       cfg,
		store:     store,
		writer:    writer,
		renderer:  renderer,
		formatter: format.New(cfg.ThousandsSeparator),
		now:       time.Now,
	}
}

// carResult is the outcome of one car's pipeline, ready to be written.
type carResult struct {
	carId   string
	records []models.FillUpRecord
	entries int
	html    []byte
	json    []byte
	err     error
}

// Generate runs every car's pipeline, then writes the car pages and the index.
// Cars are processed independently; how failures affect the run depends on
// the configured failure policy.
func (g *Generator) Generate(ctx context.Context) (*models.RunReport, error) {
	started := g.now()
	report := &models.RunReport{RunId: uuid.NewString()}
	metrics := newRunMetrics()
	log.Printf("starting run %s: %s -> %s", report.RunId, g.cfg.DataDir, g.cfg.OutputDir)

	carIds, err := g.store.ListCarIds()
	if err != nil {
		return nil, err
	}
	slices.Sort(carIds)

	results := make([]carResult, len(carIds))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, carId := range carIds {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = g.buildCar(carId)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("run %s interrupted: %w", report.RunId, err)
	}

	var failed []error
	succeeded := make([]carResult, 0, len(results))
	for _, result := range results {
		if result.err != nil {
			log.Printf("WARNING: car %s failed: %v", result.carId, result.err)
			failed = append(failed, result.err)
			report.Failures = append(report.Failures, models.CarFailure{CarId: result.carId, Error: result.err.Error()})
			continue
		}
		succeeded = append(succeeded, result)
	}

	if len(failed) > 0 && g.cfg.FailurePolicy == config.POLICY_ABORT {
		report.Duration = g.now().Sub(started)
		g.writeMetrics(metrics, report, false)
		return report, errors.Wrapf(errors.Join(failed...), "%d of %d cars failed, nothing written", len(failed), len(carIds))
	}

	if err := g.writeSite(succeeded, priceSources(results), report); err != nil {
		return report, err
	}

	report.Duration = g.now().Sub(started)
	g.writeMetrics(metrics, report, true)
	log.Printf("run %s wrote %d cars with %d entries in %s", report.RunId, len(report.Cars), report.Entries, report.Duration)
	return report, nil
}

func (g *Generator) buildCar(carId string) carResult {
	result := carResult{carId: carId}

	records, err := consumption.LoadRecords(g.store, carId)
	if err != nil {
		result.err = err
		return result
	}
	// Loaded records feed the price history even if the car fails later on.
	result.records = records

	analysis, err := consumption.AnalyzeRecords(records, carId, consumption.SummaryOptions{
		AnnualWindowDays:  g.cfg.Windows.AnnualDays,
		MonthlyWindowDays: g.cfg.Windows.MonthlyDays,
	})
	if err != nil {
		result.err = err
		return result
	}

	props, err := g.store.ReadProperties(carId)
	if err != nil {
		result.err = errors.Wrapf(err, "car %s", carId)
		return result
	}

	page := g.carPage(carId, props, analysis)
	if result.html, err = g.renderer.Render(TEMPLATE_CAR, page); err != nil {
		result.err = errors.Wrapf(err, "car %s", carId)
		return result
	}
	if result.json, err = models.ToJSON(page); err != nil {
		result.err = errors.Wrapf(err, "car %s", carId)
		return result
	}

	result.entries = len(analysis.Entries)
	return result
}

func (g *Generator) carPage(carId string, props *models.CarProperties, analysis *consumption.Analysis) models.CarPage {
	f := g.formatter
	summary := analysis.Summary
	tracked := summary.TotalDistance - summary.FirstTotalDistance

	entries := make([]models.FormattedEntry, 0, len(analysis.Entries))
	for _, e := range slices.Backward(analysis.Entries) {
		entries = append(entries, models.FormattedEntry{
			Date:          e.Date.String(),
			Distance:      f.Distance(e.Distance),
			TotalDistance: f.Distance(e.TotalDistance),
			Amount:        f.Price(e.Amount),
			Price:         f.Price(e.Price),
			Consumption:   f.Fixed(e.Consumption),
			TotalPrice:    f.Fixed(e.TotalPrice),
			CostsPer100:   f.Fixed(e.CostsPer100),
		})
	}

	return models.CarPage{
		CarId:    carId,
		Title:    g.cfg.Title,
		Currency: g.cfg.Currency,
		Properties: models.FormattedProperties{
			Name:                  props.Name,
			AverageConsumption:    f.Fixed(summary.AverageConsumption),
			TotalDistance:         f.Distance(summary.TotalDistance),
			FirstTotalDistance:    f.Distance(summary.FirstTotalDistance),
			TrackedDistance:       f.Distance(tracked),
			OverallDistance:       f.Distance(tracked + props.BaseDistance),
			DistancePerYear:       f.Grouped(summary.DistancePerYear),
			PreviousCostsPerMonth: f.Fixed(summary.PreviousCostsPerMonth),
			CostsPer100:           f.Fixed(summary.CostsPer100),
		},
		Entries: entries,
	}
}

// priceSources collects the records of every car that loaded, failed or not.
func priceSources(results []carResult) []models.CarRecords {
	sources := make([]models.CarRecords, 0, len(results))
	for _, result := range results {
		if len(result.records) > 0 {
			sources = append(sources, models.CarRecords{CarId: result.carId, Records: result.records})
		}
	}
	return sources
}

func (g *Generator) writeSite(cars []carResult, history []models.CarRecords, report *models.RunReport) error {
	for _, car := range cars {
		if err := g.writer.WriteFile("car/"+car.carId+".html", car.html); err != nil {
			return err
		}
		if err := g.writer.WriteFile("car/"+car.carId+".json", car.json); err != nil {
			return err
		}
		report.Cars = append(report.Cars, car.carId)
		report.Entries += car.entries
	}

	points := consumption.MergePriceHistory(history, consumption.LastCarWins)
	index := models.IndexPage{
		Title:        g.cfg.Title,
		Currency:     g.cfg.Currency,
		CarIds:       append([]string{}, report.Cars...),
		PriceHistory: consumption.ToPriceHistory(points),
		Statistics:   stats.Derive(points, g.cfg.PriceBucketSize),
		GeneratedAt:  g.now(),
	}

	html, err := g.renderer.Render(TEMPLATE_INDEX, index)
	if err != nil {
		return err
	}
	indexJSON, err := models.ToJSON(index)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := g.writer.WriteFile("index.html", html); err != nil {
		return err
	}
	if err := g.writer.WriteFile("index.json", indexJSON); err != nil {
		return err
	}
	return g.writer.WriteFile("static/chart.js", chartScript)
}

func (g *Generator) writeMetrics(metrics *runMetrics, report *models.RunReport, written bool) {
	metrics.observe(len(report.Cars), len(report.Failures), report.Entries, report.Duration, written)
	if g.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.write(g.cfg.MetricsFile); err != nil {
		log.Printf("failed to write metrics to %s: %v", g.cfg.MetricsFile, err)
	}
}
