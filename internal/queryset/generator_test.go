package queryset

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franz/filmdex/internal/store"
)

func TestGenerateWeightedSampling(t *testing.T) {
	titles := []*store.RatedTitle{
		{PrimaryTitle: "Blockbuster", NumVotes: 9900},
		{PrimaryTitle: "Obscure Short", NumVotes: 100},
	}

	rng := rand.New(rand.NewSource(42))
	queries, err := Generate(titles, 10000, rng)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(queries) != 10000 {
		t.Fatalf("expected 10000 queries, got %d", len(queries))
	}

	counts := make(map[string]int)
	for _, q := range queries {
		counts[q]++
	}
	if counts["Blockbuster"]+counts["Obscure Short"] != 10000 {
		t.Fatalf("unexpected query values: %v", counts)
	}

	// 99:1 weighting; allow generous slack around the expectation
	if counts["Blockbuster"] < 9700 {
		t.Errorf("expected heavy title to dominate, got %d/10000", counts["Blockbuster"])
	}
	if counts["Obscure Short"] == 0 {
		t.Error("expected light title to still be sampled occasionally")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	titles := []*store.RatedTitle{
		{PrimaryTitle: "One", NumVotes: 10},
		{PrimaryTitle: "Two", NumVotes: 20},
		{PrimaryTitle: "Three", NumVotes: 30},
	}

	a, err := Generate(titles, 100, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	b, err := Generate(titles, 100, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sampling not deterministic at index %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestGenerateNormalizesTitles(t *testing.T) {
	// "é" as 'e' + combining acute accent; output must be the composed form
	decomposed := "Léon"
	titles := []*store.RatedTitle{{PrimaryTitle: decomposed, NumVotes: 1}}

	queries, err := Generate(titles, 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if queries[0] != "Léon" {
		t.Errorf("expected NFC-normalized title, got %q", queries[0])
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	if _, err := Generate(nil, 10, rand.New(rand.NewSource(1))); !errors.Is(err, ErrNoTitles) {
		t.Errorf("expected ErrNoTitles, got %v", err)
	}

	zero := []*store.RatedTitle{{PrimaryTitle: "Unvoted", NumVotes: 0}}
	if _, err := Generate(zero, 10, rand.New(rand.NewSource(1))); !errors.Is(err, ErrNoTitles) {
		t.Errorf("expected ErrNoTitles for zero total weight, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	queries := []string{"The Matrix", "Heat", "Alien"}

	if err := WriteFile(path, queries); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 || lines[1] != "Heat" {
		t.Errorf("unexpected file contents: %q", string(data))
	}
}
