package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Document keys.
const (
	PlanKey    = "plan"
	RoutineKey = "routine"
)

const (
	docExt  = ".json"
	tempDir = ".tmp"
)

// ErrNotFound is returned when a document has never been written.
var ErrNotFound = errors.New("store: document not found")

// Persistence stores whole JSON documents by key. Writes replace the document
// atomically; concurrent writers are not arbitrated and the last write wins.
type Persistence interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Path(key string) string
	Keys(ctx context.Context) []string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Other processes edit the same documents, so every read goes to disk.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Read(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	data, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

func (p *persistence) Write(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(p.basePath, tempDir), 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Path(key string) string {
	return filepath.Join(p.basePath, key+docExt)
}

func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	if _, err := os.Stat(p.basePath); err != nil {
		return keys
	}
	for key := range p.d.Keys(ctx.Done()) {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	return keyPath(key + docExt)
}

func keyPath(file string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: file,
	}
}

// pathToKeyTransform maps files back to keys. Anything that is not a top-level
// document, such as in-flight temp files, maps to the empty key.
func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) > 0 || !strings.HasSuffix(pathKey.FileName, docExt) {
		return ""
	}
	return strings.TrimSuffix(pathKey.FileName, docExt)
}
