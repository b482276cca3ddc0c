package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Build and print the greedy initial design",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a JSON catalog/workload fixture (ignored when --mongo-uri is set)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	space := candidate.NewSpace(cat)
	d := seed.Seed(cat, space)
	fmt.Fprint(cmd.OutOrStdout(), d.String())
	return nil
}
