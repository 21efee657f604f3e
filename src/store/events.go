package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/types"
	"github.com/google/uuid"
)

// EventLog appends domain events as JSONL envelope lines. One line per event:
// {"meta": {...}, "event": {...}}. The file is the system of record for
// analytics; the in-memory maps are rebuilt state.
type EventLog struct {
	mu   sync.Mutex
	path string
	f    *os.File
	host string
}

// OpenEventLog opens (creating if needed) the append-only log. An empty path
// disables persistence; Append becomes a no-op, which keeps tests and
// ephemeral deployments free of file plumbing.
func OpenEventLog(path string) (*EventLog, error) {
	l := &EventLog{path: path}
	if host, err := os.Hostname(); err == nil {
		l.host = host
	}
	if path == "" {
		return l, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l.f = f
	return l, nil
}

// Append writes one event line. Envelope meta carries the schema version so
// later readers can detect and upgrade old lines.
func (l *EventLog) Append(e types.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	env := types.Envelope{
		Meta: &types.Meta{
			SchemaVersion: types.SchemaVersion,
			EventID:       uuid.NewString(),
			TimestampUTC:  time.Now().UTC().Format(time.RFC3339Nano),
			Hostname:      l.host,
		},
		Event: &e,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	b = append(b, '\n')
	if _, err := l.f.Write(b); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// ReplayEvents streams every parseable envelope from a JSONL log in file
// order. Malformed lines are skipped with a warning rather than aborting the
// replay: one corrupt line must not take the dashboard down.
func ReplayEvents(path string, fn func(types.Envelope) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env types.Envelope
		if err := json.Unmarshal(line, &env); err != nil || env.Meta == nil || env.Event == nil {
			logging.Warnf("event log %s line %d: skipping malformed line", path, lineNo)
			continue
		}
		if err := fn(env); err != nil {
			return err
		}
	}
	return scanner.Err()
}
