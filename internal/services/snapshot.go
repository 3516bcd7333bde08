package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xvierd/focus-smile/internal/ports"
)

// loadJSON decodes the value stored under key into v. It reports false when
// the key is absent.
func loadJSON(ctx context.Context, store ports.KeyValueStore, key string, v any) (bool, error) {
	values, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	data, ok := values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// saveJSON stores v under key as one snapshot.
func saveJSON(ctx context.Context, store ports.KeyValueStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, map[string][]byte{key: data}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
