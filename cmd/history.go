package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pubmed-cli/internal/export"
)

var (
	historyLimit int
	historyShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent stored searches",
	Long: `Lists the most recent searches recorded in the local store. With --show,
prints the stored result records of one search as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if e.History == nil {
			return eris.New("history store is disabled (store.path is empty)")
		}

		if historyShow != "" {
			recs, err := e.History.Records(ctx, historyShow)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				cmd.Println("No stored records for that search.")
				return nil
			}
			csv, err := export.RecordsCSVString(recs)
			if err != nil {
				return err
			}
			cmd.Print(csv)
			return nil
		}

		searches, err := e.History.RecentSearches(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(searches) == 0 {
			cmd.Println("No stored searches.")
			return nil
		}
		for _, s := range searches {
			cmd.Printf("%s  %s  found=%d  max=%d  %q\n",
				s.CreatedAt.Format("2006-01-02 15:04"), s.ID, s.Found, s.MaxResults, s.Query)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max searches to list")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "print the stored records of the given search ID as CSV")
	rootCmd.AddCommand(historyCmd)
}
