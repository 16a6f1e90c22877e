package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/sqlite"
)

func (a *app) runsCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List scoring runs recorded in a SQLite ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := config.LoadProfile(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				profile.DBPath = dbPath
			}

			ledger, err := sqlite.Open(cmd.Context(), profile.DBPath)
			if err != nil {
				return err
			}
			defer ledger.Close()

			runs, err := ledger.Runs(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tMODEL\tWORDS\tSCORED\tBATCH\tPROMPT")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Model,
					r.WordCount, r.Scored, r.BatchSize, r.PromptHash)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the SQLite ledger")
	return cmd
}
