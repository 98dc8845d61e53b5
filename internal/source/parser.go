package source

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/theirongolddev/budget/internal/model"
)

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// normalize fixes the formatting quirks some banks emit that ofxgo rejects.
func normalize(content []byte) []byte {
	content = bytes.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllFunc(content, bytes.ToUpper)
	return openTagRe.ReplaceAll(content, []byte("$1>"))
}

// ParseFile reads and parses one statement file.
func ParseFile(df DiscoveredFile) ParseResult {
	result := ParseResult{File: df}

	raw, err := os.ReadFile(df.Path)
	if err != nil {
		result.Err = err
		return result
	}

	result.Transactions, result.Accounts, result.Skipped, result.Err = Parse(raw)
	return result
}

// Parse converts the debits of every bank and credit card statement in an
// OFX document into expense transactions.
func Parse(raw []byte) ([]model.Transaction, []string, int, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(normalize(raw)))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("parsing ofx: %w", err)
	}

	var txns []model.Transaction
	var accounts []string
	skipped := 0

	add := func(list *ofxgo.TransactionList, account string, method model.PaymentMethod) {
		accounts = append(accounts, account)
		if list == nil {
			return
		}
		for _, t := range list.Transactions {
			tx, ok := convert(t, account, method)
			if !ok {
				skipped++
				continue
			}
			txns = append(txns, tx)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), model.PaymentDebitCard)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), model.PaymentCreditCard)
		}
	}

	return txns, accounts, skipped, nil
}

// convert keeps debits only; OFX amounts are negative for money leaving the account.
func convert(t ofxgo.Transaction, account string, method model.PaymentMethod) (model.Transaction, bool) {
	amount, _ := t.TrnAmt.Float64()
	if amount >= 0 {
		return model.Transaction{}, false
	}

	merchant := merchantName(t)
	if merchant == "" {
		merchant = t.TrnType.String()
	}

	switch t.TrnType {
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		method = model.PaymentCash
	}
	if strings.Contains(strings.ToUpper(string(t.Name)+" "+string(t.Memo)), "UPI") {
		method = model.PaymentUPI
	}

	return model.Transaction{
		ExternalID:    account + ":" + string(t.FiTID),
		Amount:        -amount,
		Merchant:      merchant,
		Date:          t.DtPosted.Time,
		Category:      Categorize(merchant + " " + string(t.Memo)),
		PaymentMethod: method,
		Description:   strings.TrimSpace(string(t.Memo)),
	}, true
}

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"UPI/",
}

var genericNames = map[string]bool{
	"DEBIT": true, "CREDIT": true, "PURCHASE": true, "PAYMENT": true,
	"POS TRANSACTION": true, "CARD PURCHASE": true,
}

// merchantName prefers PAYEE, then NAME, then MEMO when NAME is generic.
func merchantName(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}

	name := strings.TrimSpace(string(t.Name))
	if t.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(t.Memo))
	}

	upper := strings.ToUpper(name)
	for _, p := range purchasePrefixes {
		if strings.HasPrefix(upper, p) {
			name = strings.TrimSpace(name[len(p):])
			break
		}
	}

	// "03/14 MERCHANT" -> "MERCHANT"
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}
