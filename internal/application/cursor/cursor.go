// Package cursor encodes the opaque pagination token used when listing
// payments. The token carries the creation timestamp of the last item on the
// previous page; the next page selects rows strictly earlier than it.
package cursor

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Encode wraps a creation timestamp into an opaque token.
func Encode(t time.Time) string {
	return base64.RawURLEncoding.EncodeToString([]byte(t.UTC().Format(time.RFC3339Nano)))
}

// Decode unwraps a token back into the timestamp boundary it carries.
func Decode(token string) (time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor: %w", err)
	}
	return t, nil
}
