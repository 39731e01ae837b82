package services

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeRequestHash returns a deterministic digest of a request payload.
// The payload is round-tripped through encoding/json so that object keys are
// emitted in sorted order, making the hash independent of field ordering in
// the original request.
func ComputeRequestHash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload for hashing: %w", err)
	}

	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return "", fmt.Errorf("normalize payload for hashing: %w", err)
	}

	canonical, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload for hashing: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return fmt.Sprintf("%x", hash), nil
}
