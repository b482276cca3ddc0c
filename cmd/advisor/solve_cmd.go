package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/search/lns"
	"github.com/dreamware/shardadvisor/internal/seed"
)

var solveOutPath string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Seed an initial design and refine it with LNS within the configured time budget",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a JSON catalog/workload fixture (ignored when --mongo-uri is set)")
	solveCmd.Flags().StringVar(&solveOutPath, "out", "", "optional path to write the resulting design as JSON")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat, err := loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	space := candidate.NewSpace(cat)
	cache := costmodel.NewFingerprintCache(4096)
	model := costmodel.New(costModelConfig(cfg), cat, cache)

	initial := seed.Seed(cat, space)
	opt := lns.New(cat, space, model, log, time.Now().UnixNano())

	deadline := time.Now().Add(cfg.LNSTimeBudget())
	result, cost := opt.Solve(ctx, initial, deadline)

	fmt.Fprintf(cmd.OutOrStdout(), "overall_cost=%.6f\n%s", cost, result.String())
	if solveOutPath != "" {
		if err := result.Save(solveOutPath); err != nil {
			return fmt.Errorf("writing %s: %w", solveOutPath, err)
		}
	}
	return nil
}
