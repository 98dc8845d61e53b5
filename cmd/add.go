package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/model"
)

var (
	flagAmount   float64
	flagMerchant string
	flagCategory string
	flagPayment  string
	flagDate     string
	flagNote     string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense (interactive without flags)",
	Example: `  budget add
  budget add --amount 450 --merchant Swiggy --category food --payment upi`,
	RunE: runAdd,
}

func init() {
	addTransactionFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}

// addTransactionFlags registers the fields shared by add and edit.
func addTransactionFlags(c *cobra.Command) {
	c.Flags().Float64VarP(&flagAmount, "amount", "a", 0, "Amount spent")
	c.Flags().StringVar(&flagMerchant, "merchant", "", "Merchant or payee")
	c.Flags().StringVarP(&flagCategory, "category", "c", "", "Category (food, transportation, housing, ...)")
	c.Flags().StringVar(&flagPayment, "payment", "", "Payment method (cash, upi, credit_card, ...)")
	c.Flags().StringVar(&flagDate, "date", "", "Date as YYYY-MM-DD, today or yesterday")
	c.Flags().StringVar(&flagNote, "note", "", "Description")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var t model.Transaction
	if !cmd.Flags().Changed("amount") && !cmd.Flags().Changed("merchant") {
		t, err = transactionForm()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
	} else {
		t, err = transactionFromFlags(model.Transaction{Category: model.CategoryOther}, cmd)
	}
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := st.AddTransaction(t)
	if err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}
	fmt.Printf("  Added #%d  %s  %s at %s\n", id, categoryLabel(t.Category), fmtMoney(cfg, t.Amount), t.Merchant)
	return nil
}

// transactionFromFlags overlays the flags that were set onto t.
func transactionFromFlags(t model.Transaction, cmd *cobra.Command) (model.Transaction, error) {
	f := cmd.Flags()
	if f.Changed("amount") {
		t.Amount = flagAmount
	}
	if f.Changed("merchant") {
		t.Merchant = strings.TrimSpace(flagMerchant)
	}
	if f.Changed("category") {
		c, err := model.ParseCategory(flagCategory)
		if err != nil {
			return t, err
		}
		t.Category = c
	}
	if f.Changed("payment") {
		pm, err := model.ParsePaymentMethod(flagPayment)
		if err != nil {
			return t, err
		}
		t.PaymentMethod = pm
	}
	if f.Changed("date") || t.Date.IsZero() {
		d, err := parseDate(flagDate)
		if err != nil {
			return t, err
		}
		t.Date = d
	}
	if f.Changed("note") {
		t.Description = flagNote
	}
	return t, nil
}

func transactionForm() (model.Transaction, error) {
	var amount, merchant, category, payment, date, note string
	category = string(model.CategoryFood)
	date = "today"

	categories := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, huh.NewOption(categoryLabel(c), string(c)))
	}
	payments := []huh.Option[string]{huh.NewOption("Not specified", "")}
	for _, p := range model.PaymentMethods {
		payments = append(payments, huh.NewOption(p.DisplayName(), string(p)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Amount").Value(&amount).Validate(func(s string) error {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil || v < 0 {
					return errors.New("enter a non-negative number")
				}
				return nil
			}),
			huh.NewInput().Title("Merchant").Value(&merchant).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("merchant is required")
				}
				return nil
			}),
			huh.NewSelect[string]().Title("Category").Options(categories...).Value(&category),
			huh.NewSelect[string]().Title("Payment method").Options(payments...).Value(&payment),
			huh.NewInput().Title("Date").Description("YYYY-MM-DD, today or yesterday").Value(&date).
				Validate(func(s string) error {
					_, err := parseDate(strings.TrimSpace(s))
					return err
				}),
			huh.NewText().Title("Description").Value(&note),
		),
	)
	if err := form.Run(); err != nil {
		return model.Transaction{}, err
	}

	v, _ := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	d, _ := parseDate(strings.TrimSpace(date))
	return model.Transaction{
		Amount:        v,
		Merchant:      strings.TrimSpace(merchant),
		Category:      model.Category(category),
		PaymentMethod: model.PaymentMethod(payment),
		Date:          d,
		Description:   strings.TrimSpace(note),
	}, nil
}
