package internal

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

type Regenerator interface {
	Generate(ctx context.Context) (*models.RunReport, error)
}

// StartCron regenerates the site on the given schedule. A failing run is
// logged and the next scheduled run goes ahead as normal.
func StartCron(ctx context.Context, schedule string, generator Regenerator) (*cron.Cron, error) {

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	log.Printf("Starting CRON job to regenerate the site (%s)", schedule)

	if _, err := c.AddFunc(schedule, func() {
		report, err := generator.Generate(ctx)
		if err != nil {
			log.Printf("Error regenerating site: %v\n", err)
			return
		}
		log.Printf("Regenerated %d car pages", len(report.Cars))
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
