// Package queryset produces search queries for load testing, sampled from
// the loaded catalog so the traffic mirrors real title popularity.
package queryset

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/franz/filmdex/internal/store"
)

// ErrNoTitles indicates the store has no rated titles to sample from
var ErrNoTitles = errors.New("no rated titles to sample from")

// Generate samples n display titles with replacement, weighted by vote
// count. Titles are NFC-normalized so the emitted queries match regardless
// of how the source encoded accented names. Deterministic for a fixed rng.
func Generate(titles []*store.RatedTitle, n int, rng *rand.Rand) ([]string, error) {
	if len(titles) == 0 {
		return nil, ErrNoTitles
	}

	// Cumulative weights for binary-search sampling
	cum := make([]int64, len(titles))
	var total int64
	for i, t := range titles {
		total += t.NumVotes
		cum[i] = total
	}
	if total <= 0 {
		return nil, ErrNoTitles
	}

	queries := make([]string, n)
	for i := 0; i < n; i++ {
		pick := rng.Int63n(total)
		idx := sort.Search(len(cum), func(j int) bool { return cum[j] > pick })
		queries[i] = norm.NFC.String(titles[idx].PrimaryTitle)
	}

	return queries, nil
}

// WriteFile writes queries one per line
func WriteFile(path string, queries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create query file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, q := range queries {
		if _, err := fmt.Fprintln(w, q); err != nil {
			f.Close()
			return fmt.Errorf("failed to write query: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush query file: %w", err)
	}

	return f.Close()
}
