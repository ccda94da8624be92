package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/netherd-io/netherd/pkg/util"
)

// FileStore keeps run records as JSON lines, newest last on disk. The
// file is rewritten on append once it exceeds the cap, so it never
// holds more than limit records.
type FileStore struct {
	path  string
	limit int
	mu    sync.Mutex
}

// NewFileStore opens (or creates the directory for) a file store.
func NewFileStore(path string, limit int) (*FileStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &FileStore{path: path, limit: limit}, nil
}

// Append writes one record and trims the file to the cap.
func (s *FileStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, rec)
	if len(records) > s.limit {
		records = records[len(records)-s.limit:]
	}
	return s.write(records)
}

// List returns up to limit records, newest first. limit <= 0 returns
// everything retained.
func (s *FileStore) List(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	// reverse to newest-first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// Get finds a record by run id or short-id prefix.
func (s *FileStore) Get(runID string) (*Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, false, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if matchRun(records[i], runID) {
			return &records[i], true, nil
		}
	}
	return nil, false, nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			util.Warnf("history: skipping malformed entry at line %d: %v", line, err)
			continue
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

// write replaces the file atomically so a crash mid-trim cannot lose
// the whole history.
func (s *FileStore) write(records []Record) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}
