package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	t.Run("Marshal metadata to JSON", func(t *testing.T) {
		m := Metadata{"pdf_title": "Safety Manual", "page": 3}

		value, err := m.Value()

		require.NoError(t, err)
		assert.Contains(t, string(value.([]byte)), "Safety Manual")
	})
}

func TestMetadataScan(t *testing.T) {
	t.Run("Scan from JSON bytes", func(t *testing.T) {
		var m Metadata
		err := m.Scan([]byte(`{"pdf_author":"QA Team"}`))

		require.NoError(t, err)
		assert.Equal(t, "QA Team", m["pdf_author"])
	})

	t.Run("Scan nil yields empty metadata", func(t *testing.T) {
		var m Metadata
		err := m.Scan(nil)

		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("Scan rejects non-byte values", func(t *testing.T) {
		var m Metadata
		err := m.Scan(42)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "type assertion")
	})
}
