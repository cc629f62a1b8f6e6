package templates

import (
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/laguntza/contactmail/pkg/logger"
)

// Store resolves registered templates by name and language.
// Definitions are read from the backing filesystem on first use and
// cached; the assets are immutable for the life of the process.
type Store struct {
	fs     fs.FS
	logger *slog.Logger
	cache  map[cacheKey]*Definition
	mu     sync.RWMutex
}

type cacheKey struct {
	name Name
	lang Lang
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used when templates are loaded.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store over fsys, laid out as <name>/<lang>.{html,txt}.
func NewStore(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fs:     fsys,
		logger: logger.NewNope(),
		cache:  make(map[cacheKey]*Definition),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDefaultStore creates a store over the embedded assets.
func NewDefaultStore(opts ...StoreOption) *Store {
	return NewStore(Assets(), opts...)
}

// Available returns the registered template names in sorted order.
func (s *Store) Available() []Name {
	names := make([]Name, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is a registered template.
func (s *Store) Has(name string) bool {
	_, ok := registry[Name(name)]
	return ok
}

// Resolve returns the definition for name in the given language code.
// Unknown names fail with ErrTemplateNotFound; unreadable assets fail with
// ErrTemplateLoad.
func (s *Store) Resolve(name, lang string) (*Definition, error) {
	load, ok := registry[Name(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	key := cacheKey{name: Name(name), lang: ParseLang(lang)}

	s.mu.RLock()
	if def, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return def, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if def, ok := s.cache[key]; ok {
		return def, nil
	}

	s.logger.Info("loading template",
		slog.String("template", name),
		slog.String("lang", string(key.lang)),
	)

	def, err := load(s.fs, key.lang)
	if err != nil {
		return nil, err
	}
	s.cache[key] = def
	return def, nil
}
