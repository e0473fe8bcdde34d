package dataset

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/config"
	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/helpers"
	"github.com/lisacrebassa/pals-analysis/logging"
	"github.com/lisacrebassa/pals-analysis/metrics"
	"github.com/lisacrebassa/pals-analysis/schema"
)

// Store holds the loaded tables. It is built once and never mutated, so it
// can be shared by concurrent renders.
type Store struct {
	tables  map[Name]engine.RecordView
	schemas map[Name]*schema.Config
}

// NewStore wraps already-built tables, typically in tests.
func NewStore(tables map[Name]engine.RecordView) *Store {
	s := &Store{
		tables:  make(map[Name]engine.RecordView, len(tables)),
		schemas: make(map[Name]*schema.Config),
	}
	for n, t := range tables {
		s.tables[n] = t
	}
	return s
}

// Table returns the named table.
func (s *Store) Table(name Name) (engine.RecordView, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, errors.Errorf("dataset %s is not loaded", name)
	}
	return t, nil
}

// Schema returns the discovered schema of a loaded table, or nil.
func (s *Store) Schema(name Name) *schema.Config {
	return s.schemas[name]
}

// Names lists the loaded datasets in load order.
func (s *Store) Names() []Name {
	out := make([]Name, 0, len(s.tables))
	for _, n := range All {
		if _, ok := s.tables[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Load reads every dataset of files from src. The first failure aborts the
// load with a *LoadError.
func Load(ctx context.Context, src Source, files map[Name]string, logger *logging.Logger) (*Store, error) {
	s := &Store{
		tables:  make(map[Name]engine.RecordView, len(files)),
		schemas: make(map[Name]*schema.Config, len(files)),
	}

	for _, name := range All {
		file, ok := files[name]
		if !ok {
			continue
		}
		timer := metrics.NewTimer()

		view, sch, err := loadOne(ctx, src, name, file)
		if err != nil {
			metrics.RecordDatasetError(string(name), src.Kind())
			logger.Error("Dataset load failed",
				zap.String("dataset", string(name)),
				zap.String("path", src.Location(file)),
				zap.Error(err))
			return nil, errors.WithStack(&LoadError{Dataset: name, Path: src.Location(file), Err: err})
		}

		s.tables[name] = view
		s.schemas[name] = sch
		metrics.RecordDatasetLoad(string(name), src.Kind(), view.Len(), timer.Duration())

		log := logger.WithField("dataset", string(name))
		log.Info("Dataset loaded",
			zap.String("path", src.Location(file)),
			zap.Int("rows", view.Len()),
			zap.Int("dimensions", len(view.DimensionKeys())),
			zap.Int("measures", len(view.MeasureKeys())),
			zap.Duration("duration", timer.Duration()))
		for _, m := range sch.Measures {
			if m.NullCount > 0 {
				log.LogDataQualityEvent(m.Key, fmt.Sprintf("%d empty cells loaded as NaN", m.NullCount), "info")
			}
		}
	}

	return s, nil
}

func loadOne(ctx context.Context, src Source, name Name, file string) (engine.RecordView, *schema.Config, error) {
	rc, err := src.Open(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read")
	}
	return helpers.LoadTable(string(name), data)
}

// Open builds the configured source and loads every dataset. A bad source
// or file override is reported as a *LoadError too.
func Open(ctx context.Context, cfg config.DataConfig, logger *logging.Logger) (*Store, error) {
	src, err := NewSource(ctx, cfg)
	if err != nil {
		return nil, errors.WithStack(&LoadError{Path: sourceLocation(cfg), Err: err})
	}
	files, err := Files(cfg.Files)
	if err != nil {
		return nil, errors.WithStack(&LoadError{Path: sourceLocation(cfg), Err: err})
	}
	return Load(ctx, src, files, logger)
}

func sourceLocation(cfg config.DataConfig) string {
	if cfg.Source == config.SourceS3 {
		return "s3://" + cfg.S3.Bucket + "/" + cfg.S3.Prefix
	}
	return cfg.Dir
}

// ============================================================================
// CACHE: lazy load for hosts without a startup phase
// ============================================================================

// Cache loads the store on first use and keeps it for the lifetime of the
// process. A failed load is not kept: the next Get tries again.
type Cache struct {
	mu    sync.Mutex
	load  func(ctx context.Context) (*Store, error)
	store *Store
}

func NewCache(load func(ctx context.Context) (*Store, error)) *Cache {
	return &Cache{load: load}
}

// Get returns the store, loading it if no load has succeeded yet. The load
// outlives the caller's cancellation so one aborted request cannot fail it
// for the requests queued behind it.
func (c *Cache) Get(ctx context.Context) (*Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		return c.store, nil
	}
	store, err := c.load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}
