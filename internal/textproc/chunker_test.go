package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplit_Short(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks, err := c.Split("short text that fits in one chunk")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text that fits in one chunk", chunks[0])
}

func TestChunkerSplit_OverlapWindows(t *testing.T) {
	c := NewChunker(1000, 200)
	text := strings.Repeat("a", 2500)

	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}

	// Consecutive windows share exactly the overlap length.
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-200:]
		head := chunks[i+1][:200]
		assert.Equal(t, tail, head)
	}

	// Dropping the overlap prefix of each later chunk reconstructs the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk[200:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestChunkerSplit_PrefersWordBoundaries(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.TrimSpace(strings.Repeat("word ", 40))

	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
		assert.False(t, strings.HasPrefix(chunk, "ord"), "chunk must not start mid-word")
	}
}

func TestChunkerSplit_Empty(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks, err := c.Split("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestNewChunker_Defaults(t *testing.T) {
	// Invalid parameters fall back to the default window geometry.
	c := NewChunker(0, -1)
	chunks, err := c.Split(strings.Repeat("b", 1500))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], DefaultChunkSize)
}
