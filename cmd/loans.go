package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var (
	flagLoanType    string
	flagLoanPerson  string
	flagLoanAmount  float64
	flagLoanDate    string
	flagLoanNote    string
	flagLoanPending bool
)

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Money lent to and borrowed from people",
	RunE:  runLoansList,
}

var loansAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Record a loan",
	Example: `  budget loans add --type given --person Ravi --amount 2000 --note "concert tickets"`,
	RunE:    runLoansAdd,
}

var loansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loans",
	RunE:  runLoansList,
}

var loansPayCmd = &cobra.Command{
	Use:   "pay <id>",
	Short: "Mark a loan as settled",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoansPay,
}

var loansDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a loan",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoansDelete,
}

func init() {
	loansAddCmd.Flags().StringVarP(&flagLoanType, "type", "t", "", "given (you lent) or taken (you borrowed)")
	loansAddCmd.Flags().StringVarP(&flagLoanPerson, "person", "p", "", "Who the loan is with")
	loansAddCmd.Flags().Float64VarP(&flagLoanAmount, "amount", "a", 0, "Amount")
	loansAddCmd.Flags().StringVar(&flagLoanDate, "date", "", "Date as YYYY-MM-DD, today or yesterday")
	loansAddCmd.Flags().StringVar(&flagLoanNote, "note", "", "Purpose")
	_ = loansAddCmd.MarkFlagRequired("type")
	_ = loansAddCmd.MarkFlagRequired("person")
	_ = loansAddCmd.MarkFlagRequired("amount")

	loansListCmd.Flags().StringVarP(&flagLoanType, "type", "t", "", "Only given or taken")
	loansListCmd.Flags().BoolVar(&flagLoanPending, "pending", false, "Only unsettled loans")

	loansDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")

	loansCmd.AddCommand(loansAddCmd, loansListCmd, loansPayCmd, loansDeleteCmd)
	rootCmd.AddCommand(loansCmd)
}

func runLoansAdd(_ *cobra.Command, _ []string) error {
	typ, err := model.ParseLoanType(flagLoanType)
	if err != nil {
		return err
	}
	date, err := parseDate(flagLoanDate)
	if err != nil {
		return err
	}
	if strings.TrimSpace(flagLoanPerson) == "" {
		return errors.New("--person must not be blank")
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

	l := model.Loan{
		PersonName:  strings.TrimSpace(flagLoanPerson),
		Amount:      flagLoanAmount,
		Date:        date,
		Type:        typ,
		Description: flagLoanNote,
	}
	id, err := st.AddLoan(l)
	if err != nil {
		return fmt.Errorf("saving loan: %w", err)
	}
	fmt.Printf("  Added loan #%d  %s %s\n", id, loanDirection(l), fmtMoney(cfg, l.Amount))
	return nil
}

func runLoansList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var loans []model.Loan
	switch {
	case flagLoanType != "":
		typ, perr := model.ParseLoanType(flagLoanType)
		if perr != nil {
			return perr
		}
		loans, err = st.LoansByType(typ)
	case flagLoanPending:
		loans, err = st.PendingLoans()
	default:
		loans, err = st.ListLoans()
	}
	if err != nil {
		return err
	}
	if flagLoanPending && flagLoanType != "" {
		pending := loans[:0]
		for _, l := range loans {
			if !l.IsPaid {
				pending = append(pending, l)
			}
		}
		loans = pending
	}

	if len(loans) == 0 {
		fmt.Println("\n  No loans recorded. Add one with `budget loans add`.")
		return nil
	}

	summary := pipeline.SummarizeLoans(loans)

	fmt.Println()
	fmt.Println(cli.RenderTitle("LOANS"))
	fmt.Println()

	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		status := "pending"
		if l.IsPaid {
			status = "settled " + cli.FormatDate(l.PaidDate)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", l.ID),
			cli.FormatDate(l.Date),
			loanDirection(l),
			fmtMoney(cfg, l.Amount),
			l.Purpose(),
			status,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "With", "Amount", "Purpose", "Status"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Owed to you: %s   You owe: %s   Net: %s\n",
		fmtMoney(cfg, summary.OutstandingGiven),
		fmtMoney(cfg, summary.OutstandingTaken),
		fmtMoney(cfg, summary.NetPosition()),
	)
	return nil
}

func runLoansPay(_ *cobra.Command, args []string) error {
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

	l, err := st.GetLoan(id)
	if err != nil {
		return fmt.Errorf("loan #%d: %w", id, err)
	}
	if l.IsPaid {
		fmt.Printf("  Loan #%d was already settled on %s\n", id, cli.FormatDate(l.PaidDate))
		return nil
	}
	if err := st.MarkLoanPaid(id, time.Now()); err != nil {
		return err
	}
	fmt.Printf("  Settled loan #%d  %s %s\n", id, loanDirection(l), fmtMoney(cfg, l.Amount))
	return nil
}

func runLoansDelete(_ *cobra.Command, args []string) error {
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

	l, err := st.GetLoan(id)
	if err != nil {
		return fmt.Errorf("loan #%d: %w", id, err)
	}
	if !flagYes {
		ok, err := confirm(fmt.Sprintf("Delete loan %s %s?", loanDirection(l), fmtMoney(cfg, l.Amount)))
		if err != nil || !ok {
			return err
		}
	}
	if err := st.DeleteLoan(id); err != nil {
		return err
	}
	fmt.Printf("  Deleted loan #%d\n", id)
	return nil
}

func loanDirection(l model.Loan) string {
	if l.Type == model.LoanGiven {
		return "lent to " + l.PersonName
	}
	return "borrowed from " + l.PersonName
}
