// clanctl is the operator sidekick for the bot: dry-run a distribution
// from a CSV export, clear manual actions, inspect saved state, or roll
// a season range over the roster without going through Discord.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/clanmove/internal/adapters/roster"
	service "github.com/okian/clanmove/internal/app"
	"github.com/okian/clanmove/pkg/logger"
)

var (
	spreadsheetID string
	credentials   string
	rosterRange   string
	sourceRange   string
	stateCell     string
)

func main() {
	root := &cobra.Command{
		Use:           "clanctl",
		Short:         "Operate the clan distribution roster from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return logger.Init()
		},
	}

	root.PersistentFlags().StringVar(&spreadsheetID, "spreadsheet", os.Getenv("CLANMOVE_SPREADSHEET_ID"), "spreadsheet id")
	root.PersistentFlags().StringVar(&credentials, "credentials", os.Getenv("CLANMOVE_CREDENTIALS_FILE"), "service account credentials file")
	root.PersistentFlags().StringVar(&rosterRange, "range", "Roster!A1:H60", "working roster range")
	root.PersistentFlags().StringVar(&sourceRange, "source", "Season!A1:H60", "season source range")
	root.PersistentFlags().StringVar(&stateCell, "state-cell", "State!A1", "cell holding the saved session state")

	root.AddCommand(seedCmd(), clearActionsCmd(), dumpStateCmd(), rolloverCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "clanctl:", err)
		os.Exit(1)
	}
}

// seedCmd distributes a CSV export in memory and prints the blocks that
// would be announced, without touching the spreadsheet or Discord.
func seedCmd() *cobra.Command {
	var metric, season string
	var capacity int

	cmd := &cobra.Command{
		Use:   "seed <roster.csv>",
		Short: "Dry-run a distribution from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			reader := csv.NewReader(f)
			reader.FieldsPerRecord = -1
			rows, err := reader.ReadAll()
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			if len(rows) == 0 {
				return fmt.Errorf("%s: empty file", args[0])
			}
			records := roster.ParseRows(rows[0], rows[1:], roster.DefaultFieldMap(), metric)

			svc := service.New(
				service.WithStore(roster.NewMemoryStore(roster.WithRoster(records))),
				service.WithCapacity(capacity),
				service.WithDefaultMetric(metric),
			)
			if _, err := svc.Distribute(cmd.Context(), metric, season); err != nil {
				return err
			}
			for _, block := range svc.FormatDistribution() {
				fmt.Println(block)
				fmt.Println()
			}

			view := svc.Remaining(nil)
			if !view.AllDone {
				fmt.Println(view.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "Trophies", "ranking column to sort by")
	cmd.Flags().StringVar(&season, "season", "", "season label for the announcement")
	cmd.Flags().IntVar(&capacity, "capacity", 50, "per-clan capacity")
	return cmd
}

func clearActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-actions",
		Short: "Blank every manual action cell in the roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sheetsStore()
			if err != nil {
				return err
			}
			n, err := store.ClearActions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("cleared %d action cells\n", n)
			return nil
		},
	}
}

func dumpStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-state",
		Short: "Print the saved session state blob",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sheetsStore()
			if err != nil {
				return err
			}
			blob, err := store.LoadState(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(string(blob))
			return nil
		},
	}
}

func rolloverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Copy the season source range over the working roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sheetsStore()
			if err != nil {
				return err
			}
			if err := store.CopyRange(cmd.Context(), sourceRange, rosterRange); err != nil {
				return err
			}
			fmt.Printf("copied %s over %s\n", sourceRange, rosterRange)
			return nil
		},
	}
}

func sheetsStore() (*roster.SheetsStore, error) {
	return roster.NewSheetsStore(spreadsheetID,
		roster.WithCredentialsFile(credentials),
		roster.WithRosterRange(rosterRange),
		roster.WithStateCell(stateCell),
	)
}
