package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bassista/go_park/internal/logger"
)

// LoadJSON decodes the value stored under key into out.
// A missing key and an unparsable value are both reported as ok=false with a nil
// error, so callers fall back to regenerating their state. Only backend failures
// are returned as errors.
func LoadJSON(ctx context.Context, store Getter, key string, out any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.WithComponent("kv").Warnf("value under %q is not valid JSON, treating as absent: %v", key, err)
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes v and overwrites the value stored under key.
func SaveJSON(ctx context.Context, store Setter, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := store.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}
