package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import OFX/QFX bank statements",
	Long: "Import debit transactions from OFX/QFX statement files. Files already imported\n" +
		"and unchanged since are skipped; rows seen before are ignored.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&flagImportForce, "force", "f", false, "Re-read files even if unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.General.StatementsDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no statements directory; pass one or set general.statements_dir in the config")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var bar *progressbar.ProgressBar
	progress := func(current, total int) {
		if flagQuiet {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("  Parsing statements"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(current)
	}

	res, err := pipeline.ImportStatements(dir, st, flagImportForce, progress)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	slog.Info("import finished",
		"dir", dir,
		"files", res.TotalFiles,
		"imported", res.Imported,
		"duplicates", res.Duplicates,
		"errors", res.FileErrors,
	)

	if res.TotalFiles == 0 {
		fmt.Printf("  No .ofx or .qfx files found in %s\n", dir)
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Import",
		Headers: []string{"Result", "Count"},
		Rows: [][]string{
			{"Statement files", cli.FormatNumber(int64(res.TotalFiles))},
			{"Unchanged", cli.FormatNumber(int64(res.Unchanged))},
			{"Parsed", cli.FormatNumber(int64(res.ParsedFiles))},
			{"---"},
			{"New transactions", cli.FormatNumber(int64(res.Imported))},
			{"Already imported", cli.FormatNumber(int64(res.Duplicates))},
			{"Credits skipped", cli.FormatNumber(int64(res.Skipped))},
		},
	}))

	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  could not parse %s: %v\n", f.File.Path, f.Err)
	}
	return nil
}
