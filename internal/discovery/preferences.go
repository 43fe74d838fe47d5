package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JINMI714/JMsTube/internal/store"
)

// PreferencesKey is the store key of the saved filter configuration.
const PreferencesKey = "jms_filters"

// Preferences persists the filter configuration between runs. The term is never saved.
type Preferences struct {
	store store.KeyValueStore
}

// NewPreferences creates preferences backed by kv.
func NewPreferences(kv store.KeyValueStore) *Preferences {
	return &Preferences{store: kv}
}

// Load returns the saved configuration laid over defaults. Fields missing from
// the saved value keep their default. Nothing saved yields defaults.
func (p *Preferences) Load(ctx context.Context, defaults FilterConfig) (FilterConfig, error) {
	raw, err := p.store.Get(ctx, PreferencesKey)
	if errors.Is(err, store.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("load preferences: %w", err)
	}

	f := defaults
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return defaults, fmt.Errorf("decode preferences: %w", err)
	}
	f.Term = ""
	return f, nil
}

// Save stores f.
func (p *Preferences) Save(ctx context.Context, f FilterConfig) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := p.store.Set(ctx, PreferencesKey, string(data)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
