package load

import (
	"github.com/franz/filmdex/internal/report"
	"github.com/franz/filmdex/internal/util"
)

// batchWriter buffers accepted rows and commits them in fixed-size groups.
// Each commit is one atomic storage transaction; a failed commit counts the
// whole batch as skipped and never aborts the run.
type batchWriter[T any] struct {
	entity string
	size   int
	rows   []T
	commit func([]T) error
	stats  *Stats
	events *report.EventLogger
}

func newBatchWriter[T any](entity string, size int, commit func([]T) error, stats *Stats, events *report.EventLogger) *batchWriter[T] {
	return &batchWriter[T]{
		entity: entity,
		size:   size,
		rows:   make([]T, 0, size),
		commit: commit,
		stats:  stats,
		events: events,
	}
}

// add buffers one row, committing when the batch is full
func (w *batchWriter[T]) add(row T) {
	w.rows = append(w.rows, row)
	if len(w.rows) >= w.size {
		w.flush()
	}
}

// flush commits the buffered rows, including a tail batch at end of stream
func (w *batchWriter[T]) flush() {
	if len(w.rows) == 0 {
		return
	}

	n := int64(len(w.rows))
	if err := w.commit(w.rows); err != nil {
		util.WarnLog("%s: batch of %d rows rejected by storage: %v", w.entity, n, err)
		w.events.LogBatchFail(w.entity, n, err)
		w.stats.SkippedBatch += n
	} else {
		w.stats.Loaded += n
	}

	w.rows = w.rows[:0]
}
