package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level, module, msg string
	details            map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) add(level, module, msg string, d map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level, module, msg, d})
}

func (r *recordingLogger) Debug(m, msg string, d map[string]interface{}) { r.add("debug", m, msg, d) }
func (r *recordingLogger) Info(m, msg string, d map[string]interface{})  { r.add("info", m, msg, d) }
func (r *recordingLogger) Warn(m, msg string, d map[string]interface{})  { r.add("warn", m, msg, d) }
func (r *recordingLogger) Error(m, msg string, d map[string]interface{}) { r.add("error", m, msg, d) }
func (r *recordingLogger) Sync() error                                   { return nil }

func TestWatermillLogger(t *testing.T) {
	rec := &recordingLogger{}
	wl := newWatermillLogger(rec).With(watermill.LogFields{"pubsub": "gochannel"})

	wl.Info("subscribed", watermill.LogFields{"topic": "session.approved"})
	wl.Trace("sending", nil)
	boom := errors.New("boom")
	wl.Error("send failed", boom, watermill.LogFields{"topic": "ticket.created"})

	require.Len(t, rec.entries, 3)
	assert.Equal(t, logEntry{"info", "events", "subscribed",
		map[string]interface{}{"pubsub": "gochannel", "topic": "session.approved"}}, rec.entries[0])
	assert.Equal(t, "debug", rec.entries[1].level)
	assert.Equal(t, "gochannel", rec.entries[1].details["pubsub"])
	assert.Equal(t, "error", rec.entries[2].level)
	assert.Equal(t, boom, rec.entries[2].details["error"])

	// With does not leak fields back into the parent
	base := newWatermillLogger(rec)
	base.With(watermill.LogFields{"a": 1})
	base.Debug("plain", nil)
	assert.Empty(t, rec.entries[3].details)
}
