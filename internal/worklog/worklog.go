// Package worklog writes the append-only processing log. The line format is
// a durable contract consumed by operators and downstream tooling; fields are
// pipe-delimited with IST timestamps.
package worklog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level labels a lifecycle event.
type Level string

const (
	LevelStart Level = "START"
	LevelDone  Level = "DONE"
	LevelSkip  Level = "SKIP"
	LevelError Level = "ERROR"
	LevelCycle Level = "CYCLE"
)

// Summary is one polling cycle's aggregate, logged at CYCLE level.
type Summary struct {
	Total     int
	Processed int
	Skipped   int
	Errors    int
	Duration  time.Duration
}

// Log appends lifecycle lines to one or more writers. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	writers []io.Writer
	closer  io.Closer
	loc     *time.Location
	now     func() time.Time
}

// Open creates a Log appending to the given file path, creating parent
// directories as needed. Extra writers (e.g. stdout) receive every line too.
func Open(path string, mirrors ...io.Writer) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	l := New(append([]io.Writer{f}, mirrors...)...)
	l.closer = f
	return l, nil
}

// New creates a Log writing to the given writers. Used directly in tests.
func New(writers ...io.Writer) *Log {
	return &Log{
		writers: writers,
		loc:     kolkata(),
		now:     time.Now,
	}
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Start records that a lead entered the pipeline.
func (l *Log) Start(leadID, name, apiKey string) {
	l.write(LevelStart, fmt.Sprintf("lead_id=%s | name=%s | api_key=%s", leadID, name, Redact(apiKey)))
}

// Done records a terminal scored/rejected outcome.
func (l *Log) Done(leadID, name, apiKey string) {
	l.write(LevelDone, fmt.Sprintf("lead_id=%s | name=%s | api_key=%s", leadID, name, Redact(apiKey)))
}

// Skip records an idempotency collision.
func (l *Log) Skip(leadID, name, reason string) {
	l.write(LevelSkip, fmt.Sprintf("lead_id=%s | name=%s | reason=%s", leadID, name, reason))
}

// Error records a per-lead failure. The lead stays eligible.
func (l *Log) Error(leadID, name, apiKey, reason string) {
	l.write(LevelError, fmt.Sprintf("lead_id=%s | name=%s | api_key=%s | reason=%s", leadID, name, Redact(apiKey), reason))
}

// Cycle records a polling cycle summary.
func (l *Log) Cycle(s Summary) {
	l.write(LevelCycle, fmt.Sprintf("total=%d, processed=%d, skipped=%d, errors=%d, duration=%.2fs",
		s.Total, s.Processed, s.Skipped, s.Errors, s.Duration.Seconds()))
}

func (l *Log) write(level Level, rest string) {
	stamp := l.now().In(l.loc).Format("2006-01-02 15:04:05 MST")
	line := fmt.Sprintf("%s | %-5s | %s\n", stamp, level, rest)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.writers {
		_, _ = io.WriteString(w, line)
	}
}

// Redact hides all but the last four characters of a credential. Full key
// values must never reach the log.
func Redact(key string) string {
	if key == "" {
		return "none"
	}
	if len(key) <= 4 {
		return "..." + key
	}
	return "..." + key[len(key)-4:]
}

func kolkata() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}
