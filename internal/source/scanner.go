package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var statementExts = map[string]bool{".ofx": true, ".qfx": true}

// IsStatement reports whether path has a statement file extension.
func IsStatement(path string) bool {
	return statementExts[strings.ToLower(filepath.Ext(path))]
}

// ScanDir walks dir and returns every statement file, sorted by path.
// A missing directory yields no files and no error. A path to a single
// statement file is returned as-is.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		if IsStatement(dir) {
			return []DiscoveredFile{{Path: dir, Account: filepath.Base(filepath.Dir(dir))}}, nil
		}
		return nil, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsStatement(path) {
			return nil
		}
		files = append(files, DiscoveredFile{
			Path:    path,
			Account: filepath.Base(filepath.Dir(path)),
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}
