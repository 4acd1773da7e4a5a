package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/franz/filmdex/internal/report"
	"github.com/franz/filmdex/internal/tsv"
	"github.com/franz/filmdex/internal/util"
	"github.com/schollz/progressbar/v3"
)

// Entity describes one loadable entity type: its source file, field map,
// identity, referential checks and storage commit. T is the persisted row
// type.
type Entity[T any] struct {
	Name      string
	FileName  string // default file name inside the data directory
	Fields    []tsv.Field
	BatchSize int
	Key       func(tsv.Record) (string, bool) // identity; false means malformed
	Refs      []Ref
	Build     func(tsv.Record) T
	Commit    func([]T) error
}

// Loader runs one entity's load phase: decode, validate, batch, commit.
type Loader[T any] struct {
	entity Entity[T]
	seen   *IDSet
	events *report.EventLogger
}

// NewLoader creates a loader for one phase. seen is coordinator-owned and
// must be seeded with the entity's already-persisted identifiers.
func NewLoader[T any](entity Entity[T], seen *IDSet, events *report.EventLogger) *Loader[T] {
	return &Loader[T]{entity: entity, seen: seen, events: events}
}

// Run loads the entity from its source file. Row-level failures are folded
// into the returned stats; only stream-open, stream-read and cancellation
// errors are returned. On cancellation the current batch is left uncommitted
// and no further batches are issued.
func (l *Loader[T]) Run(ctx context.Context, path string) (*Stats, error) {
	e := l.entity
	stats := &Stats{Entity: e.Name}

	r, err := tsv.OpenFile(path)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", e.Name, err)
	}
	defer r.Close()

	dec, err := tsv.NewDecoder(r.Header(), e.Fields)
	if err != nil {
		return stats, fmt.Errorf("%s: unexpected source format: %w", e.Name, err)
	}

	validator := NewValidator(e.Fields, e.Key, l.seen, e.Refs)
	writer := newBatchWriter(e.Name, e.BatchSize, e.Commit, stats, l.events)

	l.events.LogPhaseStart(e.Name, path)
	util.InfoLog("Loading %s from %s (batch size %d)...", e.Name, path, e.BatchSize)

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Loading "+e.Name),
			progressbar.OptionSetWidth(barWidth()),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("rows"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	logEvery := int64(e.BatchSize) * 5

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%s: %w", e.Name, err)
		}

		stats.Processed++
		if bar != nil {
			bar.Add(1)
		} else if stats.Processed%logEvery == 0 {
			util.InfoLog("%s: processed %d rows (loaded: %d, skipped: %d)",
				e.Name, stats.Processed, stats.Loaded, stats.Skipped())
		}

		rec, err := dec.Decode(row)
		if err != nil {
			// only ErrMissingIdentity comes out of Decode
			stats.skip(ReasonMalformed)
			l.events.LogRowSkip(e.Name, "", ReasonMalformed.String())
			continue
		}

		key, reason, ok := validator.Validate(rec)
		if !ok {
			stats.skip(reason)
			util.DebugLog("%s: skipping %q (%s)", e.Name, key, reason)
			l.events.LogRowSkip(e.Name, key, reason.String())
			continue
		}

		writer.add(e.Build(rec))
	}

	// tail batch
	writer.flush()

	if bar != nil {
		bar.Finish()
	}

	l.events.LogPhaseDone(e.Name, stats.Processed, stats.Loaded)
	util.SuccessLog("%s: %d rows processed, %d loaded, %d skipped",
		e.Name, stats.Processed, stats.Loaded, stats.Skipped())

	return stats, nil
}

// barWidth leaves room for the description and counters around the bar
func barWidth() int {
	w := util.GetTerminalWidth() - 60
	if w > 40 {
		w = 40
	}
	if w < 10 {
		w = 10
	}
	return w
}
