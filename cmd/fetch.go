package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pubmed-cli/internal/export"
)

var (
	fetchFile       string
	fetchMaxResults int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Fetch papers with pharma-affiliated authors for a query",
	Long: `Searches PubMed for the query, classifies every author affiliation, and
keeps the papers with at least one pharmaceutical/biotech-affiliated author.

Results go to the console, or to a CSV file with --file.

Examples:
  pubmed-cli fetch "cancer immunotherapy"
  pubmed-cli fetch "diabetes treatment" --file results.csv
  pubmed-cli fetch "vaccine development" -d -m 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		maxResults := fetchMaxResults
		if maxResults <= 0 {
			maxResults = cfg.Fetch.MaxResults
		}

		papers, err := e.Pipeline.FetchAndClassify(ctx, query, maxResults)
		if err != nil {
			return eris.Wrapf(err, "fetch %q", query)
		}

		if e.History != nil {
			if _, err := e.History.SaveSearch(ctx, query, maxResults, papers); err != nil {
				zap.L().Warn("history save failed", zap.Error(err))
			}
		}

		if fetchFile != "" {
			if err := export.WriteCSV(papers, fetchFile); err != nil {
				return err
			}
			cmd.Printf("Results exported to %s\n", fetchFile)
			return nil
		}

		export.WriteConsole(os.Stdout, papers)
		if csv, err := export.CSVString(papers); err == nil {
			zap.L().Debug("csv content", zap.String("csv", csv))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFile, "file", "f", "", "output file path for CSV results")
	fetchCmd.Flags().IntVarP(&fetchMaxResults, "max-results", "m", 0, "maximum number of results to process (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
