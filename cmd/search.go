package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var searchMaxResults int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Print the PubMed IDs matching a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		maxResults := searchMaxResults
		if maxResults <= 0 {
			maxResults = cfg.Fetch.MaxResults
		}

		ids, err := e.Pipeline.Search(ctx, query, maxResults)
		if err != nil {
			return eris.Wrapf(err, "search %q", query)
		}
		for _, id := range ids {
			cmd.Println(id)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "m", 0, "maximum number of IDs to return (default from config)")
	rootCmd.AddCommand(searchCmd)
}
