package transcript

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSink_SaveAndList(t *testing.T) {
	sink := NewSink(filepath.Join(t.TempDir(), "transcript.db"))
	defer sink.Close()

	sink.Save("user", "hi")
	sink.Save("assistant", "hello")

	entries := sink.List()
	require.Len(t, entries, 2)
	require.Equal(t, "user", entries[0].Role)
	require.Equal(t, "hi", entries[0].Content)
	require.Equal(t, "assistant", entries[1].Role)
	require.Equal(t, "hello", entries[1].Content)
}

// An unwritable path must degrade to the in-memory copy, not fail.
func TestSink_MemoryFallback(t *testing.T) {
	sink := NewSink("/nonexistent-dir-for-transcript-test/t.db")
	defer sink.Close()

	sink.Save("user", "hi")
	entries := sink.List()
	require.Len(t, entries, 1)
	require.Equal(t, "hi", entries[0].Content)
}

func TestSink_NilIsNoop(t *testing.T) {
	var sink *Sink
	sink.Save("user", "hi")
	require.Nil(t, sink.List())
	require.NoError(t, sink.Close())
}
