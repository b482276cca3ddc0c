package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/design"
)

var costDesignPath string

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Report a design file's cost_model breakdown",
	RunE:  runCost,
}

func init() {
	costCmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a JSON catalog/workload fixture (ignored when --mongo-uri is set)")
	costCmd.Flags().StringVar(&costDesignPath, "design", "", "path to a design file previously written by 'solve --out'")
	_ = costCmd.MarkFlagRequired("design")
}

func runCost(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat, err := loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	space := candidate.NewSpace(cat)
	d, err := design.Load(cat, space, costDesignPath)
	if err != nil {
		return fmt.Errorf("loading design %s: %w", costDesignPath, err)
	}

	model := costmodel.New(costModelConfig(cfg), cat, nil)
	b := model.Explain(d)
	fmt.Fprintf(cmd.OutOrStdout(), "network=%.6f disk=%.6f skew=%.6f overall=%.6f\n",
		b.Network, b.Disk, b.Skew, b.Overall)
	return nil
}
