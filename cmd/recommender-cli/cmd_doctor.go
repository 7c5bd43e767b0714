package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/recommender/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against the config file, the server and its loaded artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "\nRecommender Doctor")
	fmt.Fprintln(out, "==================")

	results := doctorChecks(ctx, flagURL)

	fmt.Fprintln(out)
	allPassed := true
	for _, r := range results {
		mark := "[ok]  "
		if !r.Passed {
			mark = "[fail]"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Fprintf(out, "%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Fprintf(out, "       Hint: %s\n", r.Hint)
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "Some checks failed.")
		return errors.New("doctor found issues")
	}
	fmt.Fprintln(out, "All checks passed!")
	return nil
}

func doctorChecks(ctx context.Context, url string) []checkResult {
	var results []checkResult

	cfgPath, _, cfgErr := loadConfigFile()
	switch {
	case cfgErr == nil:
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: cfgPath})
	case errors.Is(cfgErr, os.ErrNotExist):
		// Optional: flags and env are enough.
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: "not present (using flags/env)"})
	default:
		results = append(results, checkResult{
			Name: "Config file", Detail: cfgErr.Error(), Hint: "Fix the YAML or run: recommender-cli init",
		})
	}

	results = append(results, checkResult{Name: "Server URL", Passed: url != "", Detail: url})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c := client.New(url)

	h, err := c.Health(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Server reachable", Detail: url,
			Hint: fmt.Sprintf("Is the recommender server running? Error: %v", err),
		})
	}
	results = append(results, checkResult{Name: "Server reachable", Passed: true, Detail: "version " + h.Version})

	ready, err := c.Ready(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Artifacts loaded",
			Hint: fmt.Sprintf("Check ARTIFACT_DIR on the server. Error: %v", err),
		})
	}
	results = append(results, checkResult{Name: "Artifacts loaded", Passed: true, Detail: ready.Checks["artifacts"]})

	stats, err := c.Stats(ctx)
	if err != nil {
		return append(results, checkResult{Name: "Catalog", Hint: err.Error()})
	}
	results = append(results, checkResult{
		Name:   "Catalog",
		Passed: stats.Products > 0,
		Detail: fmt.Sprintf("%d products, %d precomputed seeds", stats.Products, stats.PrecomputedSeeds),
		Hint:   "The metadata snapshot is missing or empty",
	})

	return results
}
