package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/tomhuettmann/fuel-consumption/internal"
)

// Schedule regenerates the site once straight away, then on the configured
// cron schedule until ctx is cancelled.
func Schedule(ctx context.Context, configPath string) error {

	cfg, generator, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	if _, err := generator.Generate(ctx); err != nil {
		log.Printf("initial generation failed: %v", err)
	}

	c, err := internal.StartCron(ctx, cfg.Schedule, generator)
	if err != nil {
		return fmt.Errorf("failed to start CRON job: %w", err)
	}

	<-ctx.Done()
	log.Printf("stopping scheduled regeneration")
	<-c.Stop().Done()
	return nil
}
