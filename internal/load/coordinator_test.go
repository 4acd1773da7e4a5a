package load

import (
	"context"
	"testing"

	"github.com/franz/filmdex/internal/report"
)

// writeScenario writes the four dumps of the end-to-end scenario:
// 3 persons (1 without identifier), 2 titles, 2 ratings (1 unknown title),
// 3 principals (1 unknown person).
func writeScenario(t *testing.T, dir string) {
	t.Helper()

	writeDump(t, dir, PersonsFile, []string{
		personsHeader,
		"nm0000001\tCarmen Dauset\t1868\t1910\tactress",
		"nm0000002\tAcme Clown\t\\N\t\\N\tactor",
		"\\N\tNo Identifier\t\\N\t\\N\t\\N",
	})

	writeDump(t, dir, TitlesFile, []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\tshort\tCarmencita\tCarmencita\t0\t1894\t\\N\t1\tDocumentary,Short",
		"tt0000002\tshort\tLe clown et ses chiens\tLe clown et ses chiens\t0\t1892\t\\N\t5\tAnimation,Short",
	})

	writeDump(t, dir, RatingsFile, []string{
		"tconst\taverageRating\tnumVotes",
		"tt0000001\t5.7\t2145",
		"tt9999999\t6.1\t300",
	})

	writeDump(t, dir, PrincipalsFile, []string{
		"tconst\tordering\tnconst\tcategory\tjob\tcharacters",
		"tt0000001\t1\tnm0000001\tself\t\\N\t[\"Self\"]",
		"tt0000002\t1\tnm0000002\tactor\t\\N\t\\N",
		"tt0000002\t2\tnm9999999\tdirector\t\\N\t\\N",
	})
}

func phaseByName(t *testing.T, rep *RunReport, name string) *Stats {
	t.Helper()
	for _, s := range rep.Phases {
		if s.Entity == name {
			return s
		}
	}
	t.Fatalf("no phase %q in report", name)
	return nil
}

func TestCoordinatorEndToEnd(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeScenario(t, dir)

	coord := NewCoordinator(s, Config{DataDir: dir}, report.NullLogger())
	rep, err := coord.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(rep.Phases) != 4 {
		t.Fatalf("expected 4 phases, got %d", len(rep.Phases))
	}

	persons := phaseByName(t, rep, "persons")
	if persons.Loaded != 2 || persons.SkippedMalformed != 1 {
		t.Errorf("persons: expected loaded=2 malformed=1, got %+v", persons)
	}

	titles := phaseByName(t, rep, "titles")
	if titles.Loaded != 2 || titles.Skipped() != 0 {
		t.Errorf("titles: expected loaded=2 skipped=0, got %+v", titles)
	}

	ratings := phaseByName(t, rep, "ratings")
	if ratings.Loaded != 1 || ratings.SkippedMissingRef != 1 {
		t.Errorf("ratings: expected loaded=1 missing-ref=1, got %+v", ratings)
	}

	principals := phaseByName(t, rep, "principals")
	if principals.Loaded != 2 || principals.SkippedMissingRef != 1 {
		t.Errorf("principals: expected loaded=2 missing-ref=1, got %+v", principals)
	}

	// Persisted counts match the report
	if n, _ := s.CountPersons(); n != 2 {
		t.Errorf("expected 2 persons persisted, got %d", n)
	}
	if n, _ := s.CountTitles(); n != 2 {
		t.Errorf("expected 2 titles persisted, got %d", n)
	}
	if n, _ := s.CountRatings(); n != 1 {
		t.Errorf("expected 1 rating persisted, got %d", n)
	}
	if n, _ := s.CountPrincipals(); n != 2 {
		t.Errorf("expected 2 principals persisted, got %d", n)
	}

	if r, _ := s.GetRating("tt9999999"); r != nil {
		t.Error("rating with missing title reference must not persist")
	}
}

func TestCoordinatorRunTwiceIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	writeScenario(t, dir)

	coord := NewCoordinator(s, Config{DataDir: dir}, report.NullLogger())
	ctx := context.Background()

	if _, err := coord.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	rep, err := coord.Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// Everything that loaded the first time is now a duplicate
	persons := phaseByName(t, rep, "persons")
	if persons.Loaded != 0 || persons.SkippedDuplicate != 2 || persons.SkippedMalformed != 1 {
		t.Errorf("persons: expected all duplicates on re-run, got %+v", persons)
	}
	ratings := phaseByName(t, rep, "ratings")
	if ratings.Loaded != 0 || ratings.SkippedDuplicate != 1 || ratings.SkippedMissingRef != 1 {
		t.Errorf("ratings: expected duplicate+missing-ref on re-run, got %+v", ratings)
	}
	principals := phaseByName(t, rep, "principals")
	if principals.Loaded != 0 || principals.SkippedDuplicate != 2 || principals.SkippedMissingRef != 1 {
		t.Errorf("principals: expected duplicates on re-run, got %+v", principals)
	}

	// Counts unchanged
	if n, _ := s.CountPersons(); n != 2 {
		t.Errorf("expected 2 persons after re-run, got %d", n)
	}
	if n, _ := s.CountPrincipals(); n != 2 {
		t.Errorf("expected 2 principals after re-run, got %d", n)
	}
}

func TestCoordinatorMissingSourceIsFatal(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()
	// Only persons present; the titles phase must abort the run
	writeDump(t, dir, PersonsFile, []string{
		personsHeader,
		"nm0000001\tCarmen Dauset\t1868\t1910\tactress",
	})

	coord := NewCoordinator(s, Config{DataDir: dir}, report.NullLogger())
	rep, err := coord.Run(context.Background())
	if err == nil {
		t.Fatal("expected fatal error for missing titles dump")
	}

	// The completed persons phase is still reported
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases in aborted report, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Loaded != 1 {
		t.Errorf("expected persons phase to have completed, got %+v", rep.Phases[0])
	}
}

func TestCoordinatorFileOverrides(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	writeDump(t, dir, "people.tsv.gz", []string{
		personsHeader,
		"nm0000001\tCarmen Dauset\t1868\t1910\tactress",
	})
	writeDump(t, dir, TitlesFile, []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\tshort\tCarmencita\tCarmencita\t0\t1894\t\\N\t1\tShort",
	})
	writeDump(t, dir, RatingsFile, []string{"tconst\taverageRating\tnumVotes"})
	writeDump(t, dir, PrincipalsFile, []string{"tconst\tordering\tnconst\tcategory\tjob\tcharacters"})

	cfg := Config{DataDir: dir, PersonsFile: "people.tsv.gz", PersonBatch: 1}
	rep, err := NewCoordinator(s, cfg, report.NullLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if phaseByName(t, rep, "persons").Loaded != 1 {
		t.Errorf("expected override file to be loaded, got %+v", rep.Phases[0])
	}
}
