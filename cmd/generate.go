package cmd

import (
	"context"
	"fmt"
	"log"
)

func Generate(ctx context.Context, configPath string) error {

	cfg, generator, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	report, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate site: %w", err)
	}
	log.Printf("generated %d car pages into %s", len(report.Cars), cfg.OutputDir)
	for _, failure := range report.Failures {
		log.Printf("WARNING: left out car %s: %s", failure.CarId, failure.Error)
	}

	if cfg.CheckLinks {
		return Check(cfg.OutputDir)
	}
	return nil
}
