// Command advisor runs the physical-design advisor: seed an initial
// design from a catalog/workload snapshot, refine it with the LNS search
// engine, or report a design's cost breakdown.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	mongoURI   string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "advisor",
	Short:         "Physical-design advisor for a sharded document database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "advisor.toml", "path to the advisor's TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string to ingest from; when empty, --catalog selects a JSON fixture instead")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable development-mode structured logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(costCmd)
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "advisor: "+err.Error())
		os.Exit(1)
	}
}
