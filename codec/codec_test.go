package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCrossCodecRoundTrip(t *testing.T) {
	// Both codecs speak JSON; bytes written by one must decode under the other.
	in := map[string]any{"text": "built the thing", "year": float64(2024)}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
