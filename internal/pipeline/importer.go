package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/budget/internal/source"
	"github.com/theirongolddev/budget/internal/store"
)

// ProgressFunc is called during import to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportResult holds the outcome of one statement import.
type ImportResult struct {
	TotalFiles  int
	Unchanged   int
	ParsedFiles int
	FileErrors  int
	Imported    int // new rows written
	Duplicates  int // rows already present from an earlier import
	Skipped     int // credits and zero-amount rows
	Failures    []source.ParseResult
}

// ParseAll parses files on a bounded worker pool. Results keep the order of files.
func ParseAll(files []source.DiscoveredFile, progressFn ProgressFunc) []source.ParseResult {
	results := make([]source.ParseResult, len(files))
	if len(files) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	for i := range files {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// ImportStatements scans dir, skips statement files whose mtime and size
// match the last import, parses the rest in parallel and writes their
// transactions. Rows already imported are ignored by external ID.
func ImportStatements(dir string, st *store.Store, force bool, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading tracked files: %w", err)
	}

	var toParse []source.DiscoveredFile
	stats := make(map[string]store.FileInfo, len(files))
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
		stats[f.Path] = fi

		if prev, ok := tracked[f.Path]; ok && !force && prev == fi {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
	}

	if len(toParse) == 0 {
		return result, nil
	}

	report := func(current, _ int) {
		if progressFn != nil {
			progressFn(current+result.Unchanged, result.TotalFiles)
		}
	}

	for _, pr := range ParseAll(toParse, report) {
		if pr.Err != nil {
			result.FileErrors++
			result.Failures = append(result.Failures, pr)
			continue
		}
		result.ParsedFiles++
		result.Skipped += pr.Skipped

		n, err := st.ImportTransactions(pr.Transactions)
		if err != nil {
			return result, fmt.Errorf("importing %s: %w", pr.File.Path, err)
		}
		result.Imported += n
		result.Duplicates += len(pr.Transactions) - n

		if err := st.TrackFile(pr.File.Path, stats[pr.File.Path], n); err != nil {
			return result, fmt.Errorf("tracking %s: %w", pr.File.Path, err)
		}
	}

	return result, nil
}
