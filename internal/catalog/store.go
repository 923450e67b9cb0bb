package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"coinquery/internal/domain"
	"coinquery/internal/fsutil"

	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher retrieves the remote coin catalog.
type Fetcher interface {
	CoinsList(ctx context.Context) (domain.Catalog, error)
}

// Snapshot is the persisted pair of catalog and suggestion vocabulary.
// Vocabulary is nil when suggestions were disabled at build time.
type Snapshot struct {
	Catalog    domain.Catalog `msgpack:"catalog"`
	Vocabulary []string       `msgpack:"vocabulary"`

	index *Index
}

// Index returns the suggestion index, or nil when suggestions are off.
func (s *Snapshot) Index() *Index {
	if s == nil {
		return nil
	}
	if s.index == nil && s.Vocabulary != nil {
		s.index = NewIndex(s.Vocabulary)
	}
	return s.index
}

// Store owns the on-disk catalog snapshot. There is no expiry: once written
// the file is reused until removed.
type Store struct {
	path    string
	fetcher Fetcher
	dym     bool
	tracer  trace.Tracer
}

func NewStore(tracer trace.Tracer, path string, fetcher Fetcher, dym bool) *Store {
	return &Store{path: path, fetcher: fetcher, dym: dym, tracer: tracer}
}

func (s *Store) Path() string { return s.path }

// Load restores the snapshot from disk, or fetches the catalog and writes the
// snapshot when the file does not exist yet.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "catalog-store.load")
	defer span.End()
	span.SetAttributes(attribute.String("path", s.path))

	snap, err := s.read()
	if err == nil {
		log.Printf("loading coins list ... (%d coins)", len(snap.Catalog))
		if s.dym && snap.Vocabulary == nil {
			snap.Vocabulary = NewIndex(snap.Catalog.Vocabulary()).Words()
		}
		return snap, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}

	log.Println("fetching coins list ...")
	coins, err := s.fetcher.CoinsList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch coins list: %w", err)
	}

	snap = &Snapshot{Catalog: coins}
	if s.dym {
		snap.index = NewIndex(coins.Vocabulary())
		snap.Vocabulary = snap.index.Words()
	}

	if err := s.write(snap); err != nil {
		return nil, fmt.Errorf("write catalog snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) read() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &snap, nil
}

func (s *Store) write(snap *Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, data)
}
