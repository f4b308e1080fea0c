package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chexlabs/buzzline/ledger"
)

func newLedgerCmd() *cobra.Command {
	var (
		ledgerType string
		ledgerPath string
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the processed-posts ledger",
	}

	cmd.PersistentFlags().StringVar(&ledgerType, "type", "json", "Ledger type: json|sqlite")
	cmd.PersistentFlags().StringVar(&ledgerPath, "path", "./processed_posts.json", "Ledger file path")

	open := func() (ledger.Ledger, error) {
		switch ledgerType {
		case "sqlite":
			return ledger.OpenSQLite(ledgerPath)
		case "json":
			return ledger.OpenJSON(ledgerPath)
		default:
			return nil, fmt.Errorf("unknown ledger type %q", ledgerType)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List processed posts in decision order",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := open()
			if err != nil {
				return err
			}
			defer l.Close()

			for i, rec := range l.Records() {
				fmt.Printf("%4d  %-8s  views=%-8d  %s\n",
					i+1, rec.Sentiment, rec.Views, rec.URL)
			}
			fmt.Printf("total: %d\n", l.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cycles",
		Short: "Show recent cycle summaries (sqlite ledger only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerType != "sqlite" {
				return fmt.Errorf("cycle history requires the sqlite ledger")
			}
			l, err := ledger.OpenSQLite(ledgerPath)
			if err != nil {
				return err
			}
			defer l.Close()

			runs, err := l.ListCycles(20)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Printf("%s  %s  collected=%d fresh=%d processed=%d ordered=%d\n",
					run.RunID, run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Collected, run.Fresh, run.Processed, run.Ordered)
			}
			return nil
		},
	})

	return cmd
}
