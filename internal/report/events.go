package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventRunStart   EventType = "run_start"
	EventRunDone    EventType = "run_done"
	EventPhaseStart EventType = "phase_start"
	EventPhaseDone  EventType = "phase_done"
	EventRowSkip    EventType = "row_skip"
	EventBatchFail  EventType = "batch_fail"
	EventError      EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event is a single record in the run's audit log. Per-row skip events are
// logged at debug level; with tens of millions of source rows the log stays
// usable only because the default level drops them.
type Event struct {
	Timestamp time.Time  `json:"ts"`
	RunID     string     `json:"run_id,omitempty"`
	Level     EventLevel `json:"level"`
	Event     EventType  `json:"event"`
	Entity    string     `json:"entity,omitempty"`
	Key       string     `json:"key,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Rows      int64      `json:"rows,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EventLogger writes load-run events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	runID    string
	minLevel EventLevel
}

// NewEventLogger creates an event logger for one run. minLevel determines
// which events are written (LevelInfo drops the per-row debug events).
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(outputDir, fmt.Sprintf("load-%s.jsonl", timestamp))

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		runID:    uuid.NewString(),
		minLevel: minLevel,
	}, nil
}

// NullLogger returns a logger that discards everything
func NullLogger() *EventLogger {
	return &EventLogger{}
}

// Path returns the path of the log file, or "" for a null logger
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the identifier stamped on this run's events
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.RunID = l.runID

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogPhaseStart logs the beginning of one entity's load phase
func (l *EventLogger) LogPhaseStart(entity, source string) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventPhaseStart,
		Entity: entity,
		Key:    source,
	})
}

// LogPhaseDone logs the completion of one entity's load phase
func (l *EventLogger) LogPhaseDone(entity string, processed, loaded int64) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventPhaseDone,
		Entity: entity,
		Rows:   processed,
		Reason: fmt.Sprintf("loaded=%d", loaded),
	})
}

// LogRowSkip logs a single rejected row (debug level)
func (l *EventLogger) LogRowSkip(entity, key, reason string) error {
	return l.Log(&Event{
		Level:  LevelDebug,
		Event:  EventRowSkip,
		Entity: entity,
		Key:    key,
		Reason: reason,
	})
}

// LogBatchFail logs a batch the storage layer rejected
func (l *EventLogger) LogBatchFail(entity string, rows int64, err error) error {
	return l.Log(&Event{
		Level:  LevelWarning,
		Event:  EventBatchFail,
		Entity: entity,
		Rows:   rows,
		Error:  err.Error(),
	})
}

// Close flushes and closes the log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
