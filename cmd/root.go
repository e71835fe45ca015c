package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pubmed-cli/internal/config"
)

var (
	cfg         *config.Config
	flagDebug   bool
	flagNoStore bool
)

var rootCmd = &cobra.Command{
	Use:   "pubmed-cli",
	Short: "Find papers with pharma-affiliated authors on PubMed",
	Long:  "Searches PubMed, classifies author affiliations as academic or commercial, and exports papers that have at least one pharmaceutical/biotech-affiliated author.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if flagDebug {
			cfg.Log.Level = "debug"
			cfg.Log.Format = "console"
		}
		if flagNoStore {
			cfg.Store.Path = ""
		}
		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoStore, "no-store", false, "disable the search history store")
}
