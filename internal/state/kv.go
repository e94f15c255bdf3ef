// Package state holds the durable local store the profile, family and cart
// stores write their JSON blobs to.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the three independent blobs
const (
	KeyUserProfile = "@userData"
	KeyCart        = "@cart"
	KeyFamily      = "@familyData"
)

// ErrNoValue is returned by Get when nothing is stored under the key
var ErrNoValue = errors.New("state: no value for key")

// KV is a keyed blob store. Values are rewritten wholesale.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes the blob under key into dst. It reports false when the key is empty.
func LoadJSON(ctx context.Context, kv KV, key string, dst interface{}) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNoValue) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
