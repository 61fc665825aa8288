package registry

import (
	"errors"
	"testing"

	"chatrelay/internal/core"
)

func TestResolveKnownKey(t *testing.T) {
	reg := Default()

	entry, err := reg.Resolve("smart")
	if err != nil {
		t.Fatalf("Resolve(smart) failed: %v", err)
	}
	if entry.UpstreamID != "gpt-4o" {
		t.Errorf("UpstreamID = %q, want gpt-4o", entry.UpstreamID)
	}
	if !entry.ImageCapable {
		t.Error("smart should be image capable")
	}
}

func TestResolveEmptyKeyUsesDefault(t *testing.T) {
	reg := Default()

	entry, err := reg.Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") failed: %v", err)
	}
	if entry.Key != reg.DefaultKey() {
		t.Errorf("Key = %q, want default %q", entry.Key, reg.DefaultKey())
	}
}

func TestResolveUnknownKey(t *testing.T) {
	reg := Default()

	_, err := reg.Resolve("does-not-exist")
	var relayErr *core.RelayError
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *core.RelayError, got %T", err)
	}
	if relayErr.Type != core.ErrorTypeUnknownModel {
		t.Errorf("Type = %q, want %q", relayErr.Type, core.ErrorTypeUnknownModel)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	reg := Default()

	if _, err := reg.Resolve("FAST"); err == nil {
		t.Error("Resolve(FAST) should fail, membership is case-sensitive")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		defaultKey string
		entries    []Entry
	}{
		{"empty table", "fast", nil},
		{"entry without key", "fast", []Entry{{UpstreamID: "gpt-4o"}}},
		{"entry without upstream id", "fast", []Entry{{Key: "fast"}}},
		{"duplicate key", "fast", []Entry{
			{Key: "fast", UpstreamID: "gpt-4o-mini"},
			{Key: "fast", UpstreamID: "gpt-4o"},
		}},
		{"default not in table", "missing", []Entry{{Key: "fast", UpstreamID: "gpt-4o-mini"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.defaultKey, tt.entries); err == nil {
				t.Error("New() should have failed")
			}
		})
	}
}

func TestKeysPreserveTableOrder(t *testing.T) {
	reg, err := New("b", []Entry{
		{Key: "b", UpstreamID: "model-b"},
		{Key: "a", UpstreamID: "model-a"},
		{Key: "c", UpstreamID: "model-c"},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	want := []string{"b", "a", "c"}
	got := reg.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
