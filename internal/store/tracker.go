package store

import "time"

// FileInfo holds the tracked mtime and size for an imported statement file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns file_path -> FileInfo for every imported statement.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM statement_files")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// TrackFile records that path was imported at its current mtime and size.
func (s *Store) TrackFile(path string, fi FileInfo, imported int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO statement_files
		(file_path, mtime_ns, size_bytes, imported, imported_at) VALUES (?, ?, ?, ?, ?)`,
		path, fi.MtimeNs, fi.SizeBytes, imported, formatTime(time.Now()))
	return err
}

// DeleteFileTracker forgets path so the next import parses it again.
func (s *Store) DeleteFileTracker(path string) error {
	_, err := s.db.Exec("DELETE FROM statement_files WHERE file_path = ?", path)
	return err
}
