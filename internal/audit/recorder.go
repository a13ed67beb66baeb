// Package audit appends structured records of security-relevant actions to a
// durable, append-only log sink. Recording is best-effort: a sink failure is
// logged and swallowed, never propagated to the caller's primary operation.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Anonymous is the actor recorded for unauthenticated callers.
const Anonymous = "anonymous"

//go:generate mockgen -destination=../mocks/mock_recorder.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/audit Recorder

// Recorder appends one record per security-relevant action. The actor is
// passed explicitly by the orchestrating flow; implementations never reach
// into ambient request state.
type Recorder interface {
	Record(actor, ip, action string, details map[string]any)
}

// Actor identifies the caller on whose behalf an audited operation runs.
type Actor struct {
	ID string
	IP string
}

// AuditID returns the actor's identity for the audit line, or Anonymous for
// unauthenticated callers.
func (a Actor) AuditID() string {
	if a.ID == "" {
		return Anonymous
	}
	return a.ID
}

// FileRecorder writes one line per record to an append-only file and mirrors
// each event to the application logger. Writes are serialized so concurrent
// requests cannot interleave partial lines.
type FileRecorder struct {
	mu  sync.Mutex
	w   io.Writer
	c   io.Closer
	log *zap.Logger
	now func() time.Time
}

func NewFileRecorder(path string, log *zap.Logger) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	r := newRecorder(f, log)
	r.c = f
	return r, nil
}

func newRecorder(w io.Writer, log *zap.Logger) *FileRecorder {
	return &FileRecorder{
		w:   w,
		log: log,
		now: time.Now,
	}
}

// Record appends one line in the form
//
//	[timestamp] User:<id|anonymous> IP:<addr> Action:<tag> Details:<map>
func (r *FileRecorder) Record(actor, ip, action string, details map[string]any) {
	if actor == "" {
		actor = Anonymous
	}
	ts := r.now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("[%s] User:%s IP:%s Action:%s Details:%s\n",
		ts, actor, ip, action, formatDetails(details))

	r.mu.Lock()
	_, err := io.WriteString(r.w, line)
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("audit sink write failed",
			zap.String("action", action),
			zap.Error(err))
		return
	}

	r.log.Info("audit",
		zap.String("actor", actor),
		zap.String("ip", ip),
		zap.String("action", action),
		zap.Any("details", details))
}

func (r *FileRecorder) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// formatDetails renders the detail map with sorted keys so records are
// deterministic and grep-able.
func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, details[k])
	}
	b.WriteByte('}')
	return b.String()
}
