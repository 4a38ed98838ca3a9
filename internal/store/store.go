// Package store persists implication documents as JSON files under a root
// directory. Writes are atomic and schema-validated; reads go through a cache
// that a filesystem watcher invalidates when files change behind the server's
// back.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/stateworks/go-implied/pkg/implication"
	"github.com/stateworks/go-implied/pkg/model"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://stateworks.dev/schema/implication-v1.schema.json"

var (
	// ErrNotFound is returned when no implication file exists for the name.
	ErrNotFound = errors.New("store: implication not found")
	// ErrInvalidName is returned for names that escape the root directory or
	// are otherwise unusable as file names.
	ErrInvalidName = errors.New("store: invalid implication name")
	// ErrFieldExists is returned when adding a field that is already present.
	ErrFieldExists = errors.New("store: field already exists")
	// ErrFieldMissing is returned when deleting a field that is not present.
	ErrFieldMissing = errors.New("store: field not found")
)

// SchemaError reports a document that failed schema validation on write.
type SchemaError struct {
	Name  string
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("store: %s failed schema validation: %v", e.Name, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Store is a file-backed implication repository. Safe for concurrent use.
type Store struct {
	root   string
	log    *zap.Logger
	schema *jsonschema.Schema

	mu    sync.RWMutex
	cache map[string]*implication.Document

	watcher *watcher
}

// Option configures Open.
type Option func(*Store)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWatcher enables filesystem watching so external edits to implication
// files invalidate the read cache.
func WithWatcher() Option {
	return func(s *Store) {
		s.watcher = &watcher{}
	}
}

// Open prepares a store rooted at dir, creating it if needed.
func Open(dir string, options ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create root: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("store: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("store: compile schema: %w", err)
	}

	s := &Store{
		root:   dir,
		log:    zap.NewNop(),
		schema: schema,
		cache:  make(map[string]*implication.Document),
	}
	for _, option := range options {
		if option != nil {
			option(s)
		}
	}

	if s.watcher != nil {
		if err := s.watcher.start(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close stops the watcher, if one is running.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.stop()
	}
	return nil
}

// List returns the names of all implication files under the root, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads an implication document by name.
func (s *Store) Load(name string) (*implication.Document, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	doc, err := implication.Decode(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = doc.Clone()
	s.mu.Unlock()
	return doc, nil
}

// Save validates the document against the implication schema and writes it
// atomically (temp file plus rename). The cache entry is refreshed on
// success.
func (s *Store) Save(name string, doc *implication.Document) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	encoded, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := s.validate(name, encoded); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = doc.Clone()
	s.mu.Unlock()

	s.log.Debug("implication saved", zap.String("name", name))
	return nil
}

// AddField inserts a new context field with the declared type's default or a
// caller-supplied initial value.
func (s *Store) AddField(name, fieldName string, initial any, declared model.ValueType) error {
	doc, err := s.Load(name)
	if err != nil {
		return err
	}
	if doc.Context.Has(fieldName) {
		return fmt.Errorf("%w: %s", ErrFieldExists, fieldName)
	}
	if validationErr := model.ValidateName(fieldName, doc.Context.Names()); validationErr != nil {
		return validationErr
	}
	value := initial
	if value == nil && declared != model.TypeNull {
		value = model.DefaultValue(declared)
	}
	doc.Context.Set(fieldName, value)
	return s.Save(name, doc)
}

// DeleteField removes a context field.
func (s *Store) DeleteField(name, fieldName string) error {
	doc, err := s.Load(name)
	if err != nil {
		return err
	}
	if !doc.Context.Delete(fieldName) {
		return fmt.Errorf("%w: %s", ErrFieldMissing, fieldName)
	}
	return s.Save(name, doc)
}

// UpdateContext applies a flushed change set: updates overwrite or insert
// field values, removals drop fields. Updates that mint a new field pass the
// same name validation AddField enforces. The write is a single save, so the
// on-disk document never reflects half of a change set.
func (s *Store) UpdateContext(name string, updates map[string]any, removed []string) error {
	doc, err := s.Load(name)
	if err != nil {
		return err
	}
	for _, fieldName := range removed {
		doc.Context.Delete(fieldName)
	}
	for _, fieldName := range sortedKeys(updates) {
		if !doc.Context.Has(fieldName) {
			if validationErr := model.ValidateName(fieldName, doc.Context.Names()); validationErr != nil {
				return validationErr
			}
		}
		doc.Context.Set(fieldName, updates[fieldName])
	}
	return s.Save(name, doc)
}

func (s *Store) validate(name string, encoded []byte) error {
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("store: validate %s: %w", name, err)
	}
	if err := s.schema.Validate(instance); err != nil {
		return &SchemaError{Name: name, Cause: err}
	}
	return nil
}

// resolve maps an implication name to its path, rejecting anything that would
// escape the root.
func (s *Store) resolve(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimSuffix(trimmed, ".json")
	if trimmed == "" || strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, trimmed+".json"), nil
}

func (s *Store) invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
	s.log.Debug("cache invalidated", zap.String("name", name))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
