package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>Info
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>HDFC0001
<ACCTID>5010001
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260305120000[0:GMT]
<TRNAMT>-450.50
<FITID>F001
<NAME>POS PURCHASE SWIGGY BANGALORE
</STMTTRN>
<STMTTRN>
<TRNTYPE>ATM
<DTPOSTED>20260307120000[0:GMT]
<TRNAMT>-2000.00
<FITID>F002
<NAME>ATM WDL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260310120000[0:GMT]
<TRNAMT>85000.00
<FITID>F003
<NAME>SALARY
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260312120000[0:GMT]
<TRNAMT>-129.00
<FITID>F004
<NAME>PAYMENT
<MEMO>UPI NETFLIX SUBSCRIPTION
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>100000.00
<DTASOF>20260331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func writeStatement(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_BankStatement(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "hdfc/march.ofx", sampleBankOFX)

	result := ParseFile(DiscoveredFile{Path: path})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(result.Transactions))
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (salary credit)", result.Skipped)
	}
	if len(result.Accounts) != 1 || result.Accounts[0] != "5010001" {
		t.Errorf("Accounts = %v", result.Accounts)
	}

	food := result.Transactions[0]
	if food.Merchant != "SWIGGY BANGALORE" {
		t.Errorf("Merchant = %q", food.Merchant)
	}
	if food.Amount != 450.5 {
		t.Errorf("Amount = %v, want 450.5", food.Amount)
	}
	if food.Category != model.CategoryFood {
		t.Errorf("Category = %s, want FOOD", food.Category)
	}
	if food.ExternalID != "5010001:F001" {
		t.Errorf("ExternalID = %q", food.ExternalID)
	}
	if food.PaymentMethod != model.PaymentDebitCard {
		t.Errorf("PaymentMethod = %s", food.PaymentMethod)
	}
	if want := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC); !food.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", food.Date, want)
	}

	if atm := result.Transactions[1]; atm.PaymentMethod != model.PaymentCash {
		t.Errorf("ATM PaymentMethod = %s, want CASH", atm.PaymentMethod)
	}

	sub := result.Transactions[2]
	if sub.Merchant != "UPI NETFLIX SUBSCRIPTION" {
		t.Errorf("generic NAME should fall back to MEMO, got %q", sub.Merchant)
	}
	if sub.Category != model.CategoryEntertainment || sub.PaymentMethod != model.PaymentUPI {
		t.Errorf("got %s/%s, want ENTERTAINMENT/UPI", sub.Category, sub.PaymentMethod)
	}
}

func TestParseFile_Missing(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.ofx")})
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, _, _, err := Parse([]byte("not an ofx file")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "b/two.QFX", "x")
	writeStatement(t, dir, "a/one.ofx", "x")
	writeStatement(t, dir, "a/notes.txt", "x")
	writeStatement(t, dir, ".hidden/three.ofx", "x")

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "one.ofx" || files[0].Account != "a" {
		t.Errorf("files[0] = %+v", files[0])
	}

	single, err := ScanDir(files[1].Path)
	if err != nil || len(single) != 1 {
		t.Errorf("single file scan = %v, %v", single, err)
	}

	missing, err := ScanDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Errorf("missing dir = %v, %v", missing, err)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		in   string
		want model.Category
	}{
		{"Zomato order 1234", model.CategoryFood},
		{"UBER TRIP", model.CategoryTransportation},
		{"Coca COLA vending", model.CategoryOther},
		{"BESCOM electricity bill", model.CategoryUtilities},
		{"Amazon Pay", model.CategoryShopping},
		{"IRCTC e-ticket", model.CategoryTravel},
		{"Apollo Pharmacy", model.CategoryHealth},
		{"monthly RENT", model.CategoryHousing},
		{"Coursera", model.CategoryEducation},
		{"", model.CategoryOther},
	}
	for _, tt := range tests {
		if got := Categorize(tt.in); got != tt.want {
			t.Errorf("Categorize(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func FuzzCategorize(f *testing.F) {
	f.Add("SWIGGY")
	f.Add("")
	f.Add("ÖLA")
	f.Fuzz(func(t *testing.T, s string) {
		c := Categorize(s)
		if _, err := model.ParseCategory(string(c)); err != nil {
			t.Fatalf("Categorize(%q) returned unknown category %q", s, c)
		}
	})
}
