package flatfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestEnsureInitializedWritesSingleHeader(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)

	if err := store.EnsureInitialized(); err != nil {
		test.Fatalf("ensure initialized: %v", err)
	}
	if err := store.EnsureInitialized(); err != nil {
		test.Fatalf("second ensure initialized: %v", err)
	}

	contents := mustReadFile(test, store.Path())
	lines := nonEmptyLines(contents)
	if len(lines) != 1 {
		test.Fatalf("expected exactly one header line, got %d: %q", len(lines), contents)
	}
	if lines[0] != "id,color,size" {
		test.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestAppendThenScanRoundTrips(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	first := Row{"id": "a1", "color": "red", "size": ""}
	second := Row{"id": "a2", "color": "blue, with a comma", "size": "-3"}

	if err := store.Append(first); err != nil {
		test.Fatalf("append: %v", err)
	}
	if err := store.Append(second); err != nil {
		test.Fatalf("append: %v", err)
	}

	rows, err := store.Scan(nil)
	if err != nil {
		test.Fatalf("scan: %v", err)
	}
	if len(rows) != 2 {
		test.Fatalf("expected 2 rows, got %d", len(rows))
	}
	assertRowEqual(test, rows[0], first)
	assertRowEqual(test, rows[1], second)
}

func TestScanMissingFileYieldsEmpty(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)

	rows, err := store.Scan(nil)
	if err != nil {
		test.Fatalf("scan on missing file: %v", err)
	}
	if len(rows) != 0 {
		test.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestScanFiltersInInsertionOrder(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	for index := 0; index < 5; index++ {
		row := Row{"id": "r" + strconv.Itoa(index), "color": "green", "size": strconv.Itoa(index)}
		if index%2 == 1 {
			row["color"] = "red"
		}
		if err := store.Append(row); err != nil {
			test.Fatalf("append: %v", err)
		}
	}

	rows, err := store.Scan(func(row Row) bool { return row["color"] == "red" })
	if err != nil {
		test.Fatalf("scan: %v", err)
	}
	if len(rows) != 2 {
		test.Fatalf("expected 2 red rows, got %d", len(rows))
	}
	if rows[0]["id"] != "r1" || rows[1]["id"] != "r3" {
		test.Fatalf("rows out of insertion order: %v", rows)
	}
}

func TestFindOneReturnsAbsentWithoutError(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	if err := store.Append(Row{"id": "x", "color": "red", "size": "1"}); err != nil {
		test.Fatalf("append: %v", err)
	}

	row, found, err := store.FindOne(func(row Row) bool { return row["id"] == "x" })
	if err != nil || !found {
		test.Fatalf("expected match, found=%v err=%v", found, err)
	}
	if row["color"] != "red" {
		test.Fatalf("unexpected row: %v", row)
	}

	_, found, err = store.FindOne(func(row Row) bool { return row["id"] == "missing" })
	if err != nil {
		test.Fatalf("find one: %v", err)
	}
	if found {
		test.Fatal("expected absent")
	}
}

func TestAppendRejectsPartialRow(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)

	err := store.Append(Row{"id": "x"})
	if !errors.Is(err, ErrRowShape) {
		test.Fatalf("expected ErrRowShape, got %v", err)
	}
}

func TestScanRejectsForeignHeader(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	mustWriteFile(test, store.Path(), "id,shade,size\nx,red,1\n")

	_, err := store.Scan(nil)
	if !errors.Is(err, ErrInconsistentSchema) {
		test.Fatalf("expected ErrInconsistentSchema, got %v", err)
	}

	var storeError StoreError
	if !errors.As(err, &storeError) {
		test.Fatalf("expected StoreError, got %T", err)
	}
	if storeError.Store() != "widgets" || storeError.Operation() != "scan" {
		test.Fatalf("unexpected error metadata: %s.%s", storeError.Store(), storeError.Operation())
	}
}

func TestRewriteAllTransformsAndDrops(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Append(Row{"id": id, "color": "red", "size": "1"}); err != nil {
			test.Fatalf("append: %v", err)
		}
	}

	changed, err := store.RewriteAll(func(row Row) (Row, bool, error) {
		switch row["id"] {
		case "a":
			updated := Row{"id": "a", "color": "blue", "size": "1"}
			return updated, true, nil
		case "b":
			return nil, false, nil
		default:
			return row, true, nil
		}
	})
	if err != nil {
		test.Fatalf("rewrite: %v", err)
	}
	if changed != 2 {
		test.Fatalf("expected 2 changed rows, got %d", changed)
	}

	rows, err := store.Scan(nil)
	if err != nil {
		test.Fatalf("scan: %v", err)
	}
	if len(rows) != 2 {
		test.Fatalf("expected 2 surviving rows, got %d", len(rows))
	}
	if rows[0]["color"] != "blue" || rows[1]["id"] != "c" {
		test.Fatalf("unexpected survivors: %v", rows)
	}
}

func TestRewriteAllAbortLeavesFileIntact(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	for _, id := range []string{"a", "b"} {
		if err := store.Append(Row{"id": id, "color": "red", "size": "1"}); err != nil {
			test.Fatalf("append: %v", err)
		}
	}
	before := mustReadFile(test, store.Path())
	injected := errors.New("mid-write fault")

	_, err := store.RewriteAll(func(row Row) (Row, bool, error) {
		if row["id"] == "b" {
			return nil, false, injected
		}
		return Row{"id": row["id"], "color": "mutated", "size": "1"}, true, nil
	})
	if !errors.Is(err, injected) {
		test.Fatalf("expected injected fault, got %v", err)
	}

	after := mustReadFile(test, store.Path())
	if before != after {
		test.Fatalf("file changed after aborted rewrite:\nbefore=%q\nafter=%q", before, after)
	}
	leftovers, globErr := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), "*.tmp"))
	if globErr != nil {
		test.Fatalf("glob: %v", globErr)
	}
	if len(leftovers) != 0 {
		test.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestWithLockSerializesCheckThenAppend(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	if err := store.EnsureInitialized(); err != nil {
		test.Fatalf("ensure initialized: %v", err)
	}

	const writers = 16
	var wait sync.WaitGroup
	wait.Add(writers)
	for index := 0; index < writers; index++ {
		go func() {
			defer wait.Done()
			_ = store.WithLock(func(tx *Tx) error {
				_, exists, findErr := tx.FindOne(func(row Row) bool { return row["id"] == "only" })
				if findErr != nil {
					return findErr
				}
				if exists {
					return nil
				}
				return tx.Append(Row{"id": "only", "color": "red", "size": "1"})
			})
		}()
	}
	wait.Wait()

	rows, err := store.Scan(func(row Row) bool { return row["id"] == "only" })
	if err != nil {
		test.Fatalf("scan: %v", err)
	}
	if len(rows) != 1 {
		test.Fatalf("check-then-append raced: %d rows with the same id", len(rows))
	}
}

func TestNewStoreRequiresConfig(test *testing.T) {
	test.Parallel()
	_, err := NewStore(Config{Path: "", Schema: testSchema(test)})
	if !errors.Is(err, ErrInvalidStoreConfig) {
		test.Fatalf("expected ErrInvalidStoreConfig, got %v", err)
	}
	_, err = NewStore(Config{Path: "widgets.csv"})
	if !errors.Is(err, ErrInvalidStoreConfig) {
		test.Fatalf("expected ErrInvalidStoreConfig, got %v", err)
	}
}

func testSchema(test *testing.T) Schema {
	test.Helper()
	schema, err := NewSchema("widgets", "id", "color", "size")
	if err != nil {
		test.Fatalf("schema: %v", err)
	}
	return schema
}

func newTestStore(test *testing.T) *Store {
	test.Helper()
	path := filepath.Join(test.TempDir(), "widgets.csv")
	store, err := NewStore(Config{Path: path, Schema: testSchema(test)})
	if err != nil {
		test.Fatalf("new store: %v", err)
	}
	return store
}

func assertRowEqual(test *testing.T, got Row, want Row) {
	test.Helper()
	if len(got) != len(want) {
		test.Fatalf("row mismatch: got %v want %v", got, want)
	}
	for field, value := range want {
		if got[field] != value {
			test.Fatalf("field %q: got %q want %q", field, got[field], value)
		}
	}
}

func mustReadFile(test *testing.T, path string) string {
	test.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		test.Fatalf("read %s: %v", path, err)
	}
	return string(contents)
}

func mustWriteFile(test *testing.T, path string, contents string) {
	test.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		test.Fatalf("write %s: %v", path, err)
	}
}

func nonEmptyLines(contents string) []string {
	var lines []string
	for _, line := range strings.Split(contents, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
