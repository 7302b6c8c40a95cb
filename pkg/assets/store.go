package assets

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/vango-dev/packs/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/vango-dev/packs/pkg/assets"

// Config answers the settings a Store depends on.
type Config interface {
	// CompileOnDemand reports whether lookups should run the build first.
	CompileOnDemand() bool
	// CacheManifest reports whether parsed manifests are reused until refreshed.
	CacheManifest() bool
	// PublicOutputPath is the directory the build writes manifests into.
	PublicOutputPath() string
	// DefaultManifestPath is consulted when no variant-specific manifest exists.
	DefaultManifestPath() string
}

// DevServer reports whether a live development server is serving assets.
type DevServer interface {
	IsRunning() bool
}

// Compiler runs the asset build. It blocks until the build finishes.
type Compiler interface {
	Compile(ctx context.Context) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for compile and load events.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records lookups, loads and compiles into m.
func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) StoreOption {
	return func(s *Store) {
		s.tracer = tracer
	}
}

// Store resolves logical asset names through variant-keyed manifests.
// It is safe for concurrent use.
type Store struct {
	config   Config
	dev      DevServer
	compiler Compiler
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer

	mu    sync.RWMutex
	cache map[string]*Manifest
	gen   map[string]uint64 // bumped by every explicit reload of a key
	group singleflight.Group

	// File-system access; replaced in tests to count reads.
	stat     func(string) (os.FileInfo, error)
	readFile func(string) ([]byte, error)
}

// NewStore creates a Store. dev and compiler may be nil, in which case no
// compile is ever triggered.
func NewStore(config Config, dev DevServer, compiler Compiler, opts ...StoreOption) *Store {
	s := &Store{
		config:   config,
		dev:      dev,
		compiler: compiler,
		cache:    make(map[string]*Manifest),
		gen:      make(map[string]uint64),
		stat:     os.Stat,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "manifest")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// ManifestPath returns the variant-specific manifest path for variants.
func (s *Store) ManifestPath(variants ...string) string {
	return ManifestPath(s.config.PublicOutputPath(), variants...)
}

// Lookup resolves name using the manifest for variants.
//
// When compile-on-demand is enabled and no dev server is running, the build runs
// first and a build failure is returned without a path. A name that is absent,
// or mapped to an empty path, yields ("", false, nil).
func (s *Store) Lookup(ctx context.Context, name string, variants ...string) (string, bool, error) {
	ctx, span := s.startLookupSpan(ctx, "packs.Lookup", name, variants)
	defer span.End()

	path, ok, _, err := s.resolve(ctx, name, variants)
	s.finishLookup(span, ok, err)
	return path, ok, err
}

// LookupOrFail is like Lookup but reports an absent name as a *MissingEntryError.
func (s *Store) LookupOrFail(ctx context.Context, name string, variants ...string) (string, error) {
	ctx, span := s.startLookupSpan(ctx, "packs.LookupOrFail", name, variants)
	defer span.End()

	path, ok, m, err := s.resolve(ctx, name, variants)
	s.finishLookup(span, ok, err)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &MissingEntryError{
			Name:     name,
			Path:     s.ManifestPath(variants...),
			Contents: m.Dump(),
		}
	}
	return path, nil
}

// Manifest returns the manifest for variants, loading it when the cache is empty
// for that set or caching is disabled.
func (s *Store) Manifest(ctx context.Context, variants ...string) (*Manifest, error) {
	if err := ValidateVariants(variants...); err != nil {
		return nil, err
	}
	if !s.config.CacheManifest() {
		return s.refresh(ctx, variants)
	}

	key := variantKey(variants)
	if m, ok := s.cached(key); ok {
		return m, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A load that finished between the check above and Do already filled the entry.
		if m, ok := s.cached(key); ok {
			return m, nil
		}
		return s.populate(ctx, key, variants)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manifest), nil
}

// Refresh reloads the manifest for variants and replaces the cached entry.
// Concurrent readers see either the previous manifest or the new one.
func (s *Store) Refresh(ctx context.Context, variants ...string) error {
	if err := ValidateVariants(variants...); err != nil {
		return err
	}
	_, err := s.refresh(ctx, variants)
	return err
}

func (s *Store) resolve(ctx context.Context, name string, variants []string) (string, bool, *Manifest, error) {
	if err := ValidateVariants(variants...); err != nil {
		return "", false, nil, err
	}
	if s.compiling() {
		if err := s.compile(ctx); err != nil {
			return "", false, nil, err
		}
	}

	m, err := s.Manifest(ctx, variants...)
	if err != nil {
		return "", false, nil, err
	}

	path, ok := m.Lookup(name)
	return path, ok, m, nil
}

func (s *Store) compiling() bool {
	if !s.config.CompileOnDemand() || s.compiler == nil {
		return false
	}
	return s.dev == nil || !s.dev.IsRunning()
}

func (s *Store) compile(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "packs.Compile")
	defer span.End()

	start := time.Now()
	err := s.compiler.Compile(ctx)
	duration := time.Since(start)
	s.metrics.recordCompile(duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("compile failed", "duration", duration, "error", err)
		return err
	}
	s.logger.Debug("compiled before lookup", "duration", duration)
	return nil
}

func (s *Store) cached(key string) (*Manifest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.cache[key]
	return m, ok
}

// refresh loads variants and replaces the entry unless a newer refresh of the
// same key has already stored its result.
func (s *Store) refresh(ctx context.Context, variants []string) (*Manifest, error) {
	key := variantKey(variants)

	s.mu.Lock()
	s.gen[key]++
	gen := s.gen[key]
	s.mu.Unlock()

	m, err := s.load(ctx, variants)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[key] == gen {
		s.cache[key] = m
	}
	return m, nil
}

// populate fills an empty entry. A refresh that ran while it was loading wins,
// and its manifest is returned instead of the older read.
func (s *Store) populate(ctx context.Context, key string, variants []string) (*Manifest, error) {
	s.mu.RLock()
	gen := s.gen[key]
	s.mu.RUnlock()

	m, err := s.load(ctx, variants)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.cache[key]; ok && s.gen[key] != gen {
		return current, nil
	}
	s.cache[key] = m
	return m, nil
}

// load reads the variant manifest, falling back to the default manifest and then
// to an empty one. Only a missing file falls through; unreadable or malformed
// files are errors.
func (s *Store) load(ctx context.Context, variants []string) (*Manifest, error) {
	_, span := s.tracer.Start(ctx, "packs.LoadManifest")
	defer span.End()

	candidates := []struct {
		source string
		path   string
	}{
		{"variant", s.ManifestPath(variants...)},
		{"default", s.config.DefaultManifestPath()},
	}

	for _, c := range candidates {
		if !s.exists(c.path) {
			continue
		}

		span.SetAttributes(attribute.String("packs.manifest.path", c.path))
		m, err := s.read(c.path)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		s.metrics.recordLoad(c.source)
		s.logger.Debug("loaded manifest", "path", c.path, "entries", m.Len())
		return m, nil
	}

	s.metrics.recordLoad("empty")
	s.logger.Debug("no manifest found", "path", candidates[0].path, "default", candidates[1].path)
	return NewManifest(nil), nil
}

func (s *Store) exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := s.stat(path)
	return err == nil && !info.IsDir()
}

func (s *Store) read(path string) (*Manifest, error) {
	data, err := s.readFile(path)
	if err != nil {
		return nil, errors.New("E121").WithDetail(path).Wrap(err)
	}
	return ParseManifest(data, path)
}

func (s *Store) startLookupSpan(ctx context.Context, op, name string, variants []string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("packs.asset", name),
		attribute.StringSlice("packs.variants", variants),
	))
}

func (s *Store) finishLookup(span trace.Span, found bool, err error) {
	switch {
	case err != nil:
		s.metrics.recordLookup("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case found:
		s.metrics.recordLookup("found")
	default:
		s.metrics.recordLookup("missing")
	}
	span.SetAttributes(attribute.Bool("packs.found", found))
}
