package cursor_test

import (
	"testing"
	"time"

	"github.com/duespay/duespay/internal/application/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

	token := cursor.Encode(ts)
	got, err := cursor.Decode(token)

	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
}

func TestEncode_IsOpaque(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	token := cursor.Encode(ts)

	assert.NotContains(t, token, "2025")
	assert.NotContains(t, token, ":")
}

func TestDecode_RejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-base64!!", "bm90LWEtdGltZXN0YW1w"} {
		_, err := cursor.Decode(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestEncode_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	ts := time.Date(2025, 3, 14, 10, 26, 53, 0, loc)

	got, err := cursor.Decode(cursor.Encode(ts))

	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
	assert.Equal(t, time.UTC, got.Location())
}
