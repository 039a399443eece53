package id

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	got, err := New("deck")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(got, "deck-") {
		t.Errorf("expected deck- prefix, got %q", got)
	}
	// 21-char nanoid plus prefix and dash.
	if len(got) != len("deck-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id, err := New("tag")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestMustNew(t *testing.T) {
	got := MustNew("user")
	if !strings.HasPrefix(got, "user-") {
		t.Errorf("expected user- prefix, got %q", got)
	}
}
