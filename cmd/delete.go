package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
)

var flagYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
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

	if !flagYes {
		ok, err := confirm(fmt.Sprintf("Delete %s at %s on %s?", fmtMoney(cfg, t.Amount), t.Merchant, cli.FormatDate(t.Date)))
		if err != nil || !ok {
			return err
		}
	}

	if err := st.DeleteTransaction(id); err != nil {
		return err
	}
	fmt.Printf("  Deleted #%d\n", id)
	return nil
}

func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&ok).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
