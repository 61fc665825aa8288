// Package registry holds the closed table of user-facing model keys and the
// upstream identifiers they resolve to.
package registry

import (
	"fmt"

	"chatrelay/internal/core"
)

// Entry describes one user-facing model key.
type Entry struct {
	// Key is the short identifier callers supply to select a model.
	Key string `yaml:"key"`
	// UpstreamID is the provider's own model identifier string.
	UpstreamID string `yaml:"upstream_id"`
	// ImageCapable reports whether the model accepts image input.
	ImageCapable bool `yaml:"image_capable"`
}

// Registry is the closed key-to-model table. It is immutable after
// construction, so concurrent reads need no synchronization.
type Registry struct {
	entries    map[string]Entry
	keys       []string // table order, used for error messages
	defaultKey string
}

// New builds a registry from an ordered entry list. The set is closed once
// built; there is no runtime registration.
func New(defaultKey string, entries []Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("model table must not be empty")
	}

	r := &Registry{
		entries:    make(map[string]Entry, len(entries)),
		keys:       make([]string, 0, len(entries)),
		defaultKey: defaultKey,
	}
	for _, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("model entry with empty key")
		}
		if e.UpstreamID == "" {
			return nil, fmt.Errorf("model %q has no upstream id", e.Key)
		}
		if _, dup := r.entries[e.Key]; dup {
			return nil, fmt.Errorf("duplicate model key %q", e.Key)
		}
		r.entries[e.Key] = e
		r.keys = append(r.keys, e.Key)
	}

	if _, ok := r.entries[defaultKey]; !ok {
		return nil, fmt.Errorf("default model %q is not in the table", defaultKey)
	}

	return r, nil
}

// Default returns the built-in model table.
func Default() *Registry {
	r, err := New("fast", []Entry{
		{Key: "fast", UpstreamID: "gpt-4o-mini", ImageCapable: true},
		{Key: "smart", UpstreamID: "gpt-4o", ImageCapable: true},
		{Key: "reasoning", UpstreamID: "o3-mini", ImageCapable: false},
	})
	if err != nil {
		// The built-in table is a compile-time constant; failing to build it
		// is a programming error.
		panic(err)
	}
	return r
}

// Resolve looks up a model key. An empty key substitutes the default key
// before lookup. Membership is an exact, case-sensitive match; an unknown
// non-empty key fails with an unknown_model error listing the allowed keys.
func (r *Registry) Resolve(key string) (Entry, error) {
	if key == "" {
		key = r.defaultKey
	}
	e, ok := r.entries[key]
	if !ok {
		return Entry{}, core.NewUnknownModelError(key, r.keys)
	}
	return e, nil
}

// DefaultKey returns the key used when the caller omits the model field.
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// Keys returns the allowed model keys in table order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}
