package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/store"
)

const statement = `OFXHEADER:100
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
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>INR
<CCACCTFROM>
<ACCTID>4111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260303120000[0:GMT]
<TRNAMT>-1299.00
<FITID>CC1
<NAME>AMAZON
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260304120000[0:GMT]
<TRNAMT>-349.00
<FITID>CC2
<NAME>BOOKMYSHOW
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-1648.00
<DTASOF>20260331120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>
`

func TestImportStatements_Incremental(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "card", "march.qfx")
	if err := os.MkdirAll(filepath.Dir(good), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(good, []byte(statement), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "broken.ofx")
	if err := os.WriteFile(bad, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	var calls atomic.Int32
	res, err := ImportStatements(dir, st, false, func(current, total int) {
		calls.Add(1)
		if total != 2 || current > total {
			t.Errorf("progress %d/%d", current, total)
		}
	})
	if err != nil {
		t.Fatalf("ImportStatements: %v", err)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 1 || res.FileErrors != 1 || res.Imported != 2 {
		t.Errorf("first import = %+v", res)
	}
	if calls.Load() != 2 {
		t.Errorf("progress calls = %d, want 2", calls.Load())
	}

	res, err = ImportStatements(dir, st, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Unchanged != 1 || res.ParsedFiles != 0 || res.Imported != 0 {
		t.Errorf("second import = %+v", res)
	}

	// Touching the file forces a reparse; rows dedupe by external ID.
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(good, later, later); err != nil {
		t.Fatal(err)
	}
	res, err = ImportStatements(dir, st, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.ParsedFiles != 1 || res.Imported != 0 || res.Duplicates != 2 {
		t.Errorf("reimport = %+v", res)
	}

	n, err := st.TransactionCount()
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v", n, err)
	}
}

func TestImportStatements_EmptyDir(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	res, err := ImportStatements(filepath.Join(t.TempDir(), "none"), st, false, nil)
	if err != nil || res.TotalFiles != 0 {
		t.Errorf("got %+v, %v", res, err)
	}
}
