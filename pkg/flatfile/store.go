package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	operationInit    = "ensure_initialized"
	operationAppend  = "append"
	operationScan    = "scan"
	operationRewrite = "rewrite_all"
)

// Config carries everything a Store needs; there is no package-level state.
type Config struct {
	Path   string
	Schema Schema
}

// Store owns one entity kind's backing file. Every operation takes the store
// mutex, so concurrent callers are serialized; multi-step validate-then-write
// sequences go through WithLock. Mutations rewrite the whole file through a
// temp file and an atomic rename, so readers never observe a truncated file.
type Store struct {
	mu     sync.Mutex
	path   string
	schema Schema
}

// Tx exposes store operations inside a WithLock critical section.
type Tx struct {
	store *Store
}

// NewStore wires a Store from its configuration.
func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidStoreConfig)
	}
	if len(cfg.Schema.fields) == 0 {
		return nil, fmt.Errorf("%w: zero-value schema", ErrInvalidStoreConfig)
	}
	return &Store{path: cfg.Path, schema: cfg.Schema}, nil
}

// Schema returns the store's row schema.
func (store *Store) Schema() Schema {
	return store.schema
}

// Path returns the backing file path.
func (store *Store) Path() string {
	return store.path
}

// EnsureInitialized creates the backing file with exactly one header row when
// it does not exist yet. Idempotent; safe on every process start.
func (store *Store) EnsureInitialized() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.ensureInitializedLocked()
}

// Append encodes row per the schema and durably appends one line, creating
// the file (header included) when it is missing. Uniqueness is the caller's
// responsibility via a prior FindOne under WithLock.
func (store *Store) Append(row Row) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.appendLocked(row)
}

// Scan re-reads the whole file and returns the decoded rows satisfying keep,
// in insertion order. A nil keep returns every row. A missing file yields an
// empty result, not an error.
func (store *Store) Scan(keep func(Row) bool) ([]Row, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.scanLocked(keep)
}

// FindOne returns the first row satisfying match, or absent.
func (store *Store) FindOne(match func(Row) bool) (Row, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.findOneLocked(match)
}

// RewriteAll reads every row, applies transform to each (keep=false drops the
// row), and atomically replaces the file with header plus survivors. Any
// failure leaves the original file untouched. Returns how many rows were
// changed or dropped.
func (store *Store) RewriteAll(transform func(Row) (Row, bool, error)) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.rewriteAllLocked(transform)
}

// WithLock runs fn while holding the store mutex, serializing a multi-step
// sequence (for example a uniqueness check followed by an append) against
// every other store operation.
func (store *Store) WithLock(fn func(tx *Tx) error) error {
	if fn == nil {
		return nil
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	return fn(&Tx{store: store})
}

// Append behaves like Store.Append inside the critical section.
func (tx *Tx) Append(row Row) error {
	return tx.store.appendLocked(row)
}

// Scan behaves like Store.Scan inside the critical section.
func (tx *Tx) Scan(keep func(Row) bool) ([]Row, error) {
	return tx.store.scanLocked(keep)
}

// FindOne behaves like Store.FindOne inside the critical section.
func (tx *Tx) FindOne(match func(Row) bool) (Row, bool, error) {
	return tx.store.findOneLocked(match)
}

// RewriteAll behaves like Store.RewriteAll inside the critical section.
func (tx *Tx) RewriteAll(transform func(Row) (Row, bool, error)) (int, error) {
	return tx.store.rewriteAllLocked(transform)
}

func (store *Store) ensureInitializedLocked() error {
	if _, err := os.Stat(store.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return wrapStoreError(store.schema.name, operationInit, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return wrapStoreError(store.schema.name, operationInit, fmt.Errorf("%w: %w", ErrIO, err))
	}
	file, err := os.OpenFile(store.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return wrapStoreError(store.schema.name, operationInit, fmt.Errorf("%w: %w", ErrIO, err))
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(store.schema.fields); err != nil {
		_ = file.Close()
		return wrapStoreError(store.schema.name, operationInit, fmt.Errorf("%w: %w", ErrIO, err))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return wrapStoreError(store.schema.name, operationInit, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return store.syncAndClose(file, operationInit)
}

func (store *Store) appendLocked(row Row) error {
	record, err := store.schema.Encode(row)
	if err != nil {
		return wrapStoreError(store.schema.name, operationAppend, err)
	}
	if err := store.ensureInitializedLocked(); err != nil {
		return err
	}
	file, err := os.OpenFile(store.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapStoreError(store.schema.name, operationAppend, fmt.Errorf("%w: %w", ErrIO, err))
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(record); err != nil {
		_ = file.Close()
		return wrapStoreError(store.schema.name, operationAppend, fmt.Errorf("%w: %w", ErrIO, err))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return wrapStoreError(store.schema.name, operationAppend, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return store.syncAndClose(file, operationAppend)
}

func (store *Store) scanLocked(keep func(Row) bool) ([]Row, error) {
	rows, err := store.readAllLocked()
	if err != nil {
		return nil, err
	}
	if keep == nil {
		return rows, nil
	}
	matched := make([]Row, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (store *Store) findOneLocked(match func(Row) bool) (Row, bool, error) {
	rows, err := store.readAllLocked()
	if err != nil {
		return nil, false, err
	}
	for _, row := range rows {
		if match(row) {
			return row, true, nil
		}
	}
	return nil, false, nil
}

func (store *Store) rewriteAllLocked(transform func(Row) (Row, bool, error)) (int, error) {
	rows, err := store.readAllLocked()
	if err != nil {
		return 0, err
	}
	survivors := make([]Row, 0, len(rows))
	changed := 0
	for _, row := range rows {
		transformed, kept, transformErr := transform(row)
		if transformErr != nil {
			return 0, wrapStoreError(store.schema.name, operationRewrite, transformErr)
		}
		if !kept {
			changed++
			continue
		}
		if !maps.Equal(row, transformed) {
			changed++
		}
		survivors = append(survivors, transformed)
	}
	if err := store.replaceFileLocked(survivors); err != nil {
		return 0, err
	}
	return changed, nil
}

// replaceFileLocked writes header plus rows to a temp file in the same
// directory and renames it into place, so a crash mid-write never exposes a
// truncated or header-less file.
func (store *Store) replaceFileLocked(rows []Row) error {
	directory := filepath.Dir(store.path)
	temp, err := os.CreateTemp(directory, store.schema.name+"-*.tmp")
	if err != nil {
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	tempPath := temp.Name()
	cleanup := func() {
		_ = temp.Close()
		_ = os.Remove(tempPath)
	}
	writer := csv.NewWriter(temp)
	if err := writer.Write(store.schema.fields); err != nil {
		cleanup()
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	for _, row := range rows {
		record, encodeErr := store.schema.Encode(row)
		if encodeErr != nil {
			cleanup()
			return wrapStoreError(store.schema.name, operationRewrite, encodeErr)
		}
		if err := writer.Write(record); err != nil {
			cleanup()
			return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		cleanup()
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if err := temp.Sync(); err != nil {
		cleanup()
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		_ = os.Remove(tempPath)
		return wrapStoreError(store.schema.name, operationRewrite, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return nil
}

func (store *Store) readAllLocked() ([]Row, error) {
	file, err := os.Open(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, wrapStoreError(store.schema.name, operationScan, fmt.Errorf("%w: %w", ErrIO, err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Shape is enforced by the schema so a bad header surfaces as
	// ErrInconsistentSchema rather than a csv parse error.
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, wrapStoreError(store.schema.name, operationScan, fmt.Errorf("%w: empty file, missing header", ErrInconsistentSchema))
		}
		return nil, wrapStoreError(store.schema.name, operationScan, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if !store.schema.MatchesHeader(header) {
		return nil, wrapStoreError(store.schema.name, operationScan, fmt.Errorf("%w: header %v does not match schema %v", ErrInconsistentSchema, header, store.schema.fields))
	}

	var rows []Row
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			return rows, nil
		}
		if readErr != nil {
			return nil, wrapStoreError(store.schema.name, operationScan, fmt.Errorf("%w: %w", ErrIO, readErr))
		}
		row, decodeErr := store.schema.Decode(record)
		if decodeErr != nil {
			return nil, wrapStoreError(store.schema.name, operationScan, decodeErr)
		}
		rows = append(rows, row)
	}
}

func (store *Store) syncAndClose(file *os.File, operation string) error {
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return wrapStoreError(store.schema.name, operation, fmt.Errorf("%w: %w", ErrIO, err))
	}
	if err := file.Close(); err != nil {
		return wrapStoreError(store.schema.name, operation, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return nil
}
