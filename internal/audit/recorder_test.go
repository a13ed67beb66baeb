package audit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileRecorder_Record(t *testing.T) {
	var buf bytes.Buffer
	r := newRecorder(&buf, zap.NewNop())
	r.now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	}

	r.Record("user-123", "1.2.3.4", "login_success", map[string]any{"username": "alice"})

	assert.Equal(t,
		"[2025-03-10T09:30:00Z] User:user-123 IP:1.2.3.4 Action:login_success Details:{username=alice}\n",
		buf.String())
}

func TestFileRecorder_AnonymousActor(t *testing.T) {
	var buf bytes.Buffer
	r := newRecorder(&buf, zap.NewNop())

	r.Record("", "9.9.9.9", "login_failure", map[string]any{"username": "ghost"})

	assert.Contains(t, buf.String(), "User:anonymous ")
	assert.Contains(t, buf.String(), "Action:login_failure ")
}

func TestFileRecorder_DetailsSortedAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := newRecorder(&buf, zap.NewNop())

	r.Record("u", "ip", "tag", map[string]any{"b": 2, "a": 1, "c": "x"})
	r.Record("u", "ip", "tag", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Details:{a=1, b=2, c=x}")
	assert.Contains(t, lines[1], "Details:{}")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFileRecorder_SinkFailureIsSwallowed(t *testing.T) {
	r := newRecorder(failingWriter{}, zap.NewNop())

	// Must not panic or surface the error to the caller.
	r.Record("u", "ip", "login_success", nil)
}

func TestFileRecorder_ConcurrentWritersLineAtomic(t *testing.T) {
	var buf bytes.Buffer
	r := newRecorder(&buf, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("u", "ip", "tag", map[string]any{"n": 1})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "["), "corrupted line: %q", line)
		assert.True(t, strings.HasSuffix(line, "Details:{n=1}"), "corrupted line: %q", line)
	}
}

func TestNewFileRecorder_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")

	r, err := NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)

	r.Record("u1", "ip", "first", nil)
	require.NoError(t, r.Close())

	// Reopening must append, not truncate.
	r, err = NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)
	r.Record("u2", "ip", "second", nil)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Action:first")
	assert.Contains(t, lines[1], "Action:second")
}

func TestActor_AuditID(t *testing.T) {
	assert.Equal(t, "user-1", Actor{ID: "user-1"}.AuditID())
	assert.Equal(t, Anonymous, Actor{}.AuditID())
}
