// Package component implements the component catalog operations shared by the
// REST and MCP front-ends. Every operation rebuilds the index from the
// storage directory, so results always reflect the files on disk.
package component

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"unicode/utf8"

	"github.com/starford/vision2ui/internal/apperr"
	"github.com/starford/vision2ui/internal/checksum"
	"github.com/starford/vision2ui/internal/index"
	"github.com/starford/vision2ui/internal/models"
	"github.com/starford/vision2ui/internal/naming"
	"github.com/starford/vision2ui/internal/parser"
	"github.com/starford/vision2ui/internal/storage"
)

// Operation names passed to an Observer.
const (
	OpList     = "list"
	OpExists   = "exists"
	OpGet      = "get"
	OpAdd      = "add"
	OpDescribe = "describe"
)

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveOperation(op string, err error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithObserver registers an operation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// Store is the component catalog. Construct one per process and pass it to
// every front-end that needs it.
type Store struct {
	docs     storage.Provider
	logger   *slog.Logger
	observer Observer
}

// NewStore creates a Store over the given document provider.
func NewStore(docs storage.Provider, opts ...Option) *Store {
	s := &Store{docs: docs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the storage directory backing the store.
func (s *Store) Root() string { return s.docs.Root() }

func (s *Store) observe(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(op, err)
	}
}

func (s *Store) rebuild(ctx context.Context) (index.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := index.Rebuild(s.docs)
	if err != nil {
		return nil, fmt.Errorf("%w: rebuild index: %w", apperr.ErrRead, err)
	}
	return m, nil
}

// List returns all component names sorted ascending. An empty or missing
// directory yields an empty slice.
func (s *Store) List(ctx context.Context) (names []string, err error) {
	defer func() { s.observe(OpList, err) }()

	m, err := s.rebuild(ctx)
	if err != nil {
		return nil, err
	}
	return m.Names(), nil
}

// Exists reports whether name is in the index. Index failures are logged and
// reported as false.
func (s *Store) Exists(ctx context.Context, name string) bool {
	m, err := s.rebuild(ctx)
	s.observe(OpExists, err)
	if err != nil {
		s.logger.Warn("component exists: index rebuild failed",
			slog.String("component", name),
			slog.String("error", err.Error()))
		return false
	}
	_, ok := m.Lookup(name)
	return ok
}

// Get returns the full markdown content for name.
func (s *Store) Get(ctx context.Context, name string) (content string, err error) {
	defer func() { s.observe(OpGet, err) }()

	_, data, err := s.read(ctx, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Describe returns descriptive metadata for name.
func (s *Store) Describe(ctx context.Context, name string) (info *models.ComponentInfo, err error) {
	defer func() { s.observe(OpDescribe, err) }()

	filename, data, err := s.read(ctx, name)
	if err != nil {
		return nil, err
	}
	meta, err := s.docs.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrRead, err)
	}
	res := parser.Parse(data)
	return &models.ComponentInfo{
		Name:        name,
		Version:     naming.Version(filename),
		Filename:    filename,
		Title:       res.Title,
		Description: res.Description,
		Tags:        res.Tags,
		Checksum:    checksum.Sum(data),
		Size:        meta.Size,
		UpdatedAt:   meta.UpdatedAt,
	}, nil
}

// read resolves name through a fresh index and reads the backing file.
// A file removed between rebuild and read surfaces as ErrRead.
func (s *Store) read(ctx context.Context, name string) (string, []byte, error) {
	m, err := s.rebuild(ctx)
	if err != nil {
		return "", nil, err
	}
	filename, ok := m.Lookup(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: component %q", apperr.ErrNotFound, name)
	}
	data, err := s.docs.Read(filename)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", apperr.ErrRead, err)
	}
	return filename, data, nil
}

// Add stores a new component document under filename and returns the
// component name parsed from it (last-hyphen rule). The existence check is
// by exact filename, not by component name.
func (s *Store) Add(ctx context.Context, filename string, content []byte) (name string, err error) {
	defer func() { s.observe(OpAdd, err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, version, err := naming.ValidateAndExtract(filename)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", apperr.ErrInvalidFormat)
	}

	exists, err := s.docs.Exists(filename)
	if err != nil {
		return "", classifyStorageErr(filename, err)
	}
	if exists {
		return "", fmt.Errorf("%w: component file %q", apperr.ErrAlreadyExists, filename)
	}
	if err := s.docs.Create(filename, content); err != nil {
		return "", classifyStorageErr(filename, err)
	}

	if _, err := s.rebuild(ctx); err != nil {
		s.logger.Warn("component add: index rebuild failed", slog.String("error", err.Error()))
	}

	if listed := naming.DeriveName(filename); listed == "" {
		s.logger.Warn("component file stored but will not be listed",
			slog.String("filename", filename),
			slog.String("reason", "empty name before first hyphen"))
	} else if listed != name {
		s.logger.Warn("component will be listed under a different name",
			slog.String("filename", filename),
			slog.String("upload_name", name),
			slog.String("listed_name", listed))
	}
	s.logger.Info("component added",
		slog.String("component", name),
		slog.String("version", version),
		slog.String("filename", filename))
	return name, nil
}

func classifyStorageErr(filename string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		return fmt.Errorf("%w: %w", apperr.ErrInvalidFormat, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: component file %q", apperr.ErrAlreadyExists, filename)
	default:
		return fmt.Errorf("%w: %w", apperr.ErrWrite, err)
	}
}
