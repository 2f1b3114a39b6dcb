package ingest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at intervals", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, "Indexing", 100, 10)

		tracker.Start()
		tracker.Increment(25)
		tracker.Increment(25)
		tracker.Increment(75)

		assert.Equal(t, 100, tracker.Current(), "capped at total")
		assert.Greater(t, tracker.Elapsed(), time.Duration(0))
		assert.Contains(t, buf.String(), "Indexing: 100/100 (100.0%)")
	})

	t.Run("finish shows the count reached", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, "Indexing", 100, 50)

		tracker.Start()
		tracker.Increment(30)
		tracker.Finish()

		out := buf.String()
		assert.Contains(t, out, "30/100 (30.0%)")
		assert.Contains(t, out, "\n")
	})

	t.Run("not started is silent", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, "Indexing", 10, 1)

		tracker.Increment(5)
		tracker.Finish()

		assert.Empty(t, buf.String())
		assert.Equal(t, time.Duration(0), tracker.Elapsed())
	})

	t.Run("nil writer", func(t *testing.T) {
		tracker := NewProgressTracker(nil, "Indexing", 10, 0)
		tracker.Start()
		tracker.Increment(10)
		tracker.Finish()
		assert.Equal(t, 10, tracker.Current())
	})
}
