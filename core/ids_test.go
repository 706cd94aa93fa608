package core

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Run("generates ID with prefix", func(t *testing.T) {
		id := NewID("conn")

		parts := strings.SplitN(id, "_", 2)
		require.Len(t, parts, 2)
		assert.Equal(t, "conn", parts[0])

		_, err := ulid.Parse(parts[1])
		assert.NoError(t, err, "suffix should be a valid ULID")
	})

	t.Run("lowercases and trims the prefix", func(t *testing.T) {
		id := NewID(" WH ")
		assert.True(t, strings.HasPrefix(id, "wh_"))
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewID("mr")
			assert.False(t, seen[id], "duplicate ID generated: %s", id)
			seen[id] = true
		}
	})

	t.Run("panics on empty prefix", func(t *testing.T) {
		assert.Panics(t, func() { NewID("  ") })
	})
}
