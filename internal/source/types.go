// Package source discovers and parses OFX/QFX bank statement files.
package source

import "github.com/theirongolddev/budget/internal/model"

// DiscoveredFile is a statement file found on disk.
type DiscoveredFile struct {
	Path    string
	Account string // parent directory name, used only for display
}

// ParseResult holds the outcome of parsing one statement file.
type ParseResult struct {
	File         DiscoveredFile
	Transactions []model.Transaction
	Accounts     []string
	Skipped      int // credits and zero-amount rows, which are not expenses
	Err          error
}
