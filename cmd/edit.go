package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a recorded expense",
	Example: `  budget edit 42 --category shopping
  budget edit 42 --amount 1299 --note "new headphones"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addTransactionFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	changed := false
	for _, name := range []string{"amount", "merchant", "category", "payment", "date", "note"} {
		changed = changed || cmd.Flags().Changed(name)
	}
	if !changed {
		return errors.New("nothing to change; pass at least one of --amount, --merchant, --category, --payment, --date, --note")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	t, err := st.GetTransaction(id)
	if err != nil {
		return fmt.Errorf("transaction #%d: %w", id, err)
	}
	t, err = transactionFromFlags(t, cmd)
	if err != nil {
		return err
	}
	if err := st.UpdateTransaction(t); err != nil {
		return err
	}

	fmt.Printf("  Updated #%d  %s  %s at %s\n", id, categoryLabel(t.Category), fmtMoney(cfg, t.Amount), t.Merchant)
	return nil
}
