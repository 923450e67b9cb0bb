package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"coinquery/internal/domain"
	"coinquery/internal/fsutil"

	"github.com/vmihailenco/msgpack/v5"
)

// FileStore keeps the archive table in a single msgpack file. Every Create
// rewrites the file. Concurrent writers from other processes are not
// coordinated.
type FileStore struct {
	mu    sync.Mutex
	path  string
	rows  []domain.ArchiveEntry
	index map[domain.ArchiveKey]int
}

// OpenFileStore loads path if it exists; a missing file is an empty archive.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, index: make(map[domain.ArchiveKey]int)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	if err := msgpack.Unmarshal(data, &s.rows); err != nil {
		return nil, fmt.Errorf("decode archive %s: %w", path, err)
	}
	for i, row := range s.rows {
		s.index[row.Key] = i
	}
	return s, nil
}

func (s *FileStore) Create(ctx context.Context, entry domain.ArchiveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[entry.Key]; ok {
		prev := s.rows[i]
		s.rows[i] = entry
		if err := s.flush(); err != nil {
			s.rows[i] = prev
			return err
		}
		return nil
	}

	s.rows = append(s.rows, entry)
	if err := s.flush(); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		return err
	}
	s.index[entry.Key] = len(s.rows) - 1
	return nil
}

func (s *FileStore) Find(ctx context.Context, key domain.ArchiveKey) ([]domain.ArchiveEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return nil, nil
	}
	return []domain.ArchiveEntry{s.rows[i]}, nil
}

func (s *FileStore) ListDay(ctx context.Context, day int64) ([]domain.ArchiveEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ArchiveEntry
	for _, row := range s.rows {
		if row.Key.Day == day {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *FileStore) flush() error {
	data, err := msgpack.Marshal(s.rows)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, data)
}
