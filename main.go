package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomhuettmann/fuel-consumption/cmd"
)

func main() {
	var configPath string
	var outputDir string

	rootCmd := &cobra.Command{
		Use:          "fuel-consumption",
		Short:        "Static site generator for vehicle fuel-consumption logs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the site configuration (YAML)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the static site once",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Generate(c.Context(), configPath)
		},
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Regenerate the static site on the configured schedule",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Schedule(c.Context(), configPath)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report broken relative links in a generated site",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Check(outputDir)
		},
	}
	checkCmd.Flags().StringVar(&outputDir, "dir", "docs", "Directory of the generated site")

	rootCmd.AddCommand(generateCmd, scheduleCmd, checkCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("%v", err)
		stop()
		os.Exit(1)
	}
}
