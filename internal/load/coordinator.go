package load

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/franz/filmdex/internal/report"
	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/util"
)

// Config holds the per-run settings of the coordinator. Zero values fall
// back to the entity defaults.
type Config struct {
	DataDir string

	// source file name overrides, relative to DataDir
	PersonsFile    string
	TitlesFile     string
	RatingsFile    string
	PrincipalsFile string

	// batch size overrides
	PersonBatch    int
	TitleBatch     int
	RatingBatch    int
	PrincipalBatch int
}

// RunReport aggregates the four phases' counters
type RunReport struct {
	Phases   []*Stats
	Duration time.Duration
}

// Coordinator runs the four load phases in their fixed dependency order:
// persons, titles, ratings, principals. Each phase's identifier sets are
// seeded from the store when the phase starts and discarded when it ends.
type Coordinator struct {
	store  *store.Store
	cfg    Config
	events *report.EventLogger
}

// NewCoordinator creates a run coordinator
func NewCoordinator(st *store.Store, cfg Config, events *report.EventLogger) *Coordinator {
	return &Coordinator{store: st, cfg: cfg, events: events}
}

// Run executes a full load run. A missing or unreadable source file aborts
// the run; everything below that is absorbed into the report.
func (c *Coordinator) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	rep := &RunReport{}

	c.events.Log(&report.Event{Level: report.LevelInfo, Event: report.EventRunStart})

	// Phase 1: persons
	persons, err := c.seed("persons", c.store.PersonIDs)
	if err != nil {
		return rep, err
	}
	if err := runPhase(ctx, c, rep, PersonEntity(c.store), persons,
		c.cfg.PersonsFile, c.cfg.PersonBatch); err != nil {
		return rep, err
	}

	// Phase 2: titles
	titles, err := c.seed("titles", c.store.TitleIDs)
	if err != nil {
		return rep, err
	}
	if err := runPhase(ctx, c, rep, TitleEntity(c.store), titles,
		c.cfg.TitlesFile, c.cfg.TitleBatch); err != nil {
		return rep, err
	}

	// Phase 3: ratings. Reference sets are re-read from the store so they
	// reflect exactly what persisted, not what a failed batch claimed.
	titleRefs, err := c.seed("titles", c.store.TitleIDs)
	if err != nil {
		return rep, err
	}
	ratings, err := c.seed("ratings", c.store.RatingIDs)
	if err != nil {
		return rep, err
	}
	if err := runPhase(ctx, c, rep, RatingEntity(c.store, titleRefs), ratings,
		c.cfg.RatingsFile, c.cfg.RatingBatch); err != nil {
		return rep, err
	}

	// Phase 4: principals
	titleRefs, err = c.seed("titles", c.store.TitleIDs)
	if err != nil {
		return rep, err
	}
	personRefs, err := c.seed("persons", c.store.PersonIDs)
	if err != nil {
		return rep, err
	}
	principals, err := c.seed("principals", c.store.PrincipalKeys)
	if err != nil {
		return rep, err
	}
	if err := runPhase(ctx, c, rep, PrincipalEntity(c.store, titleRefs, personRefs), principals,
		c.cfg.PrincipalsFile, c.cfg.PrincipalBatch); err != nil {
		return rep, err
	}

	rep.Duration = time.Since(start)
	c.events.Log(&report.Event{Level: report.LevelInfo, Event: report.EventRunDone})

	return rep, nil
}

// seed reads one entity's persisted identifiers into a fresh set
func (c *Coordinator) seed(name string, list func() (map[string]struct{}, error)) (*IDSet, error) {
	ids, err := list()
	if err != nil {
		return nil, fmt.Errorf("failed to read existing %s identifiers: %w", name, err)
	}
	set := NewIDSet(ids)
	util.InfoLog("Found %d existing %s identifiers", set.Len(), name)
	return set, nil
}

// runPhase runs one loader and appends its stats to the report even when
// the phase fails, so a partial run still reports what it did.
func runPhase[T any](ctx context.Context, c *Coordinator, rep *RunReport, entity Entity[T],
	seen *IDSet, fileOverride string, batchOverride int) error {

	if fileOverride != "" {
		entity.FileName = fileOverride
	}
	if batchOverride > 0 {
		entity.BatchSize = batchOverride
	}

	path := filepath.Join(c.cfg.DataDir, entity.FileName)
	stats, err := NewLoader(entity, seen, c.events).Run(ctx, path)
	rep.Phases = append(rep.Phases, stats)
	return err
}
