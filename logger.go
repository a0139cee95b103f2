package pantrypal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// EventLogger receives one StoreEvent per store mutation.
type EventLogger interface {
	LogEvent(event StoreEvent) error
}

// Store names used in StoreEvent.Store.
const (
	StorePantry   = "pantry"
	StoreShopping = "shopping"
	StoreRecipes  = "recipes"
)

// StoreEvent describes a single mutation applied by one of the stores.
type StoreEvent struct {
	Store     string    `json:"store"`
	Op        string    `json:"op"`
	ItemID    string    `json:"item_id,omitempty"`
	ItemName  string    `json:"item_name,omitempty"`
	Count     int       `json:"count"`
	Persisted bool      `json:"persisted"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventLogFilePath returns a timestamped log path for the given store or command name.
func NewEventLogFilePath(name string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.jsonl",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(name), " ", "_"),
	)
}

type NoOpEventLogger struct{}

func NewNoOpEventLogger() *NoOpEventLogger {
	return &NoOpEventLogger{}
}

func (NoOpEventLogger) LogEvent(StoreEvent) error { return nil }

// JSONLinesEventLogger writes each event as one JSON line as soon as it arrives, so a
// crash loses nothing and memory stays flat however long the process runs.
type JSONLinesEventLogger struct {
	mu  sync.Mutex
	out io.Writer
}

func NewJSONLinesEventLogger(w io.Writer) *JSONLinesEventLogger {
	return &JSONLinesEventLogger{out: w}
}

// NewStdoutEventLogger logs to stdout (Lambda/CloudWatch friendly).
func NewStdoutEventLogger() *JSONLinesEventLogger {
	return NewJSONLinesEventLogger(os.Stdout)
}

func (l *JSONLinesEventLogger) LogEvent(event StoreEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(data); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	return nil
}

// MultiEventLogger fans an event out to every wrapped logger.
type MultiEventLogger []EventLogger

func (m MultiEventLogger) LogEvent(event StoreEvent) error {
	var errs []error
	for _, l := range m {
		if l == nil {
			continue
		}
		if err := l.LogEvent(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit sends event to l, stamping it if needed. Failures are logged and dropped so that a
// broken event sink never affects a store operation.
func Emit(l EventLogger, event StoreEvent) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := l.LogEvent(event); err != nil {
		slog.Warn("EVENTS: Failed to log store event", "store", event.Store, "op", event.Op, "error", err)
	}
}

// ParseLogLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON slog logger writing to stderr at the given level.
func NewLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLogLevel(level)}))
}
