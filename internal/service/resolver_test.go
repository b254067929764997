package service

import (
	"testing"
)

func TestResolverResolvesAndCaches(t *testing.T) {
	repo := NewMockSessionRepository()
	repo.groupsBySession[101] = "880000"
	resolver := NewGroupResolver(repo)

	groupID, ok := resolver.Resolve("101")
	if !ok || groupID != "880000" {
		t.Fatalf("Resolve(101) = %q, %v, want %q, true", groupID, ok, "880000")
	}

	// Second call must come from cache.
	if _, ok := resolver.Resolve("101"); !ok {
		t.Fatal("cached Resolve(101) failed")
	}
	if repo.lookupCount != 1 {
		t.Errorf("lookupCount = %d, want 1", repo.lookupCount)
	}
}

func TestResolverMisses(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
	}{
		{"Unknown session", "999"},
		{"Non-numeric id", "abc"},
		{"Empty id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewGroupResolver(NewMockSessionRepository())
			if groupID, ok := resolver.Resolve(tt.sessionID); ok || groupID != "" {
				t.Errorf("Resolve(%q) = %q, %v, want \"\", false", tt.sessionID, groupID, ok)
			}
		})
	}
}

func TestResolverMissIsNotCached(t *testing.T) {
	repo := NewMockSessionRepository()
	resolver := NewGroupResolver(repo)

	if _, ok := resolver.Resolve("101"); ok {
		t.Fatal("Resolve(101) on empty store should miss")
	}

	// The session appears later; the next Resolve must see it.
	repo.groupsBySession[101] = "880000"
	groupID, ok := resolver.Resolve("101")
	if !ok || groupID != "880000" {
		t.Fatalf("Resolve(101) after insert = %q, %v, want %q, true", groupID, ok, "880000")
	}
}

func TestResolverStoreErrorIsAMiss(t *testing.T) {
	repo := NewMockSessionRepository()
	repo.groupsBySession[101] = "880000"
	repo.failLookups = true
	resolver := NewGroupResolver(repo)

	if _, ok := resolver.Resolve("101"); ok {
		t.Fatal("Resolve during store failure should miss, not error")
	}

	repo.failLookups = false
	if _, ok := resolver.Resolve("101"); !ok {
		t.Fatal("Resolve after store recovery should hit")
	}
}

func TestResolverPrime(t *testing.T) {
	repo := NewMockSessionRepository()
	resolver := NewGroupResolver(repo)

	resolver.PrimeID(202, "990000")
	groupID, ok := resolver.Resolve("202")
	if !ok || groupID != "990000" {
		t.Fatalf("Resolve(202) after PrimeID = %q, %v, want %q, true", groupID, ok, "990000")
	}
	if repo.lookupCount != 0 {
		t.Errorf("lookupCount = %d, want 0 (primed entries skip the store)", repo.lookupCount)
	}

	resolver.Prime("", "ignored")
	resolver.Prime("203", "")
	if got := resolver.CachedCount(); got != 1 {
		t.Errorf("CachedCount = %d, want 1 (blank pairs are not primed)", got)
	}
}
