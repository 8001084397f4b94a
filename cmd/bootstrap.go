package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/tomhuettmann/fuel-consumption/internal"
	"github.com/tomhuettmann/fuel-consumption/internal/config"
	"github.com/tomhuettmann/fuel-consumption/internal/format"
	"github.com/tomhuettmann/fuel-consumption/internal/site"
)

// bootstrap initialises shared resources used by the generate and schedule
// commands. It returns the loaded configuration and a generator wired to the
// data and output directories, or an error if something failed during startup.
func bootstrap(configPath string) (*config.Config, *site.Generator, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	renderer, err := site.NewRenderer(format.New(cfg.ThousandsSeparator))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	store := internal.NewCarStore(cfg.DataDir)
	writer := internal.NewSiteWriter(cfg.OutputDir)

	return cfg, site.NewGenerator(cfg, store, writer, renderer), nil
}
