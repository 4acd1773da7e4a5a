package load

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/filmdex/internal/report"
	"github.com/franz/filmdex/internal/store"
)

// openTestStore opens a store backed by a file in a per-test temp dir
func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeDump writes a gzipped TSV source file and returns its path
func writeDump(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	gz := gzip.NewWriter(f)
	for _, line := range lines {
		if _, err := gz.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("failed to write line: %v", err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
	return path
}

const personsHeader = "nconst\tprimaryName\tbirthYear\tdeathYear\tprimaryProfession"

func TestLoaderPersons(t *testing.T) {
	s := openTestStore(t)
	path := writeDump(t, t.TempDir(), "name.basics.tsv.gz", []string{
		personsHeader,
		"nm0000001\tFred Astaire\t1899\t1987\tactor,miscellaneous,producer",
		"nm0000002\tLauren Bacall\t1924\t2014\tactress,soundtrack,archive_footage",
		"\\N\tNo Identifier\t1900\t\\N\t\\N",
	})

	seen := NewIDSet(nil)
	stats, err := NewLoader(PersonEntity(s), seen, report.NullLogger()).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if stats.Processed != 3 || stats.Loaded != 2 || stats.SkippedMalformed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	n, _ := s.CountPersons()
	if n != 2 {
		t.Errorf("expected 2 persisted persons, got %d", n)
	}

	p, err := s.GetPerson("nm0000001")
	if err != nil || p == nil {
		t.Fatalf("failed to fetch loaded person: %v", err)
	}
	if !p.BirthYear.Valid || p.BirthYear.Int64 != 1899 {
		t.Errorf("unexpected birth year: %+v", p.BirthYear)
	}
}

func TestLoaderIdempotent(t *testing.T) {
	s := openTestStore(t)
	path := writeDump(t, t.TempDir(), "name.basics.tsv.gz", []string{
		personsHeader,
		"nm0000001\tFred Astaire\t1899\t1987\tactor",
		"nm0000002\tLauren Bacall\t1924\t2014\tactress",
	})

	ctx := context.Background()

	stats, err := NewLoader(PersonEntity(s), NewIDSet(nil), report.NullLogger()).Run(ctx, path)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if stats.Loaded != 2 {
		t.Fatalf("expected 2 loaded on first run, got %d", stats.Loaded)
	}

	// Second run seeds its set from the store, the way the coordinator does
	ids, err := s.PersonIDs()
	if err != nil {
		t.Fatalf("failed to list person IDs: %v", err)
	}
	stats, err = NewLoader(PersonEntity(s), NewIDSet(ids), report.NullLogger()).Run(ctx, path)
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if stats.Loaded != 0 || stats.SkippedDuplicate != 2 {
		t.Errorf("expected all duplicates on re-run, got %+v", stats)
	}

	n, _ := s.CountPersons()
	if n != 2 {
		t.Errorf("loading twice must persist the same count as loading once, got %d", n)
	}
}

func TestLoaderInStreamDuplicates(t *testing.T) {
	s := openTestStore(t)
	path := writeDump(t, t.TempDir(), "name.basics.tsv.gz", []string{
		personsHeader,
		"nm0000001\tFred Astaire\t1899\t1987\tactor",
		"nm0000001\tFred Astaire\t1899\t1987\tactor",
	})

	stats, err := NewLoader(PersonEntity(s), NewIDSet(nil), report.NullLogger()).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stats.Loaded != 1 || stats.SkippedDuplicate != 1 {
		t.Errorf("expected in-stream duplicate suppression, got %+v", stats)
	}
}

func TestLoaderBatchFailureIsolated(t *testing.T) {
	s := openTestStore(t)
	path := writeDump(t, t.TempDir(), "name.basics.tsv.gz", []string{
		personsHeader,
		"nm0000001\tPerson One\t\\N\t\\N\t\\N",
		"nm0000002\tPerson Two\t\\N\t\\N\t\\N",
		"nm0000003\tPerson Three\t\\N\t\\N\t\\N",
		"nm0000004\tPerson Four\t\\N\t\\N\t\\N",
		"nm0000005\tPerson Five\t\\N\t\\N\t\\N",
		"nm0000006\tPerson Six\t\\N\t\\N\t\\N",
	})

	// Fail the second of three batches
	e := PersonEntity(s)
	e.BatchSize = 2
	commit := e.Commit
	call := 0
	e.Commit = func(batch []*store.Person) error {
		call++
		if call == 2 {
			return errors.New("induced storage failure")
		}
		return commit(batch)
	}

	stats, err := NewLoader(e, NewIDSet(nil), report.NullLogger()).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if stats.Loaded != 4 {
		t.Errorf("expected batches before and after the failure to persist (4 rows), got %d", stats.Loaded)
	}
	if stats.SkippedBatch != 2 {
		t.Errorf("expected skipped count to rise by exactly the batch size, got %d", stats.SkippedBatch)
	}

	n, _ := s.CountPersons()
	if n != 4 {
		t.Errorf("expected 4 persisted persons, got %d", n)
	}
	if p, _ := s.GetPerson("nm0000003"); p != nil {
		t.Error("rows of the failed batch must not persist")
	}
	if p, _ := s.GetPerson("nm0000005"); p == nil {
		t.Error("rows after the failed batch must persist")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	s := openTestStore(t)

	_, err := NewLoader(PersonEntity(s), NewIDSet(nil), report.NullLogger()).
		Run(context.Background(), filepath.Join(t.TempDir(), "name.basics.tsv.gz"))
	if err == nil {
		t.Fatal("expected fatal error for missing source file")
	}
}

func TestLoaderCancellation(t *testing.T) {
	s := openTestStore(t)
	path := writeDump(t, t.TempDir(), "name.basics.tsv.gz", []string{
		personsHeader,
		"nm0000001\tPerson One\t\\N\t\\N\t\\N",
		"nm0000002\tPerson Two\t\\N\t\\N\t\\N",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(PersonEntity(s), NewIDSet(nil), report.NullLogger()).Run(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
