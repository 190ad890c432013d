// Package discovery tracks which tool names have been surfaced to the model
// within one conversation.
package discovery

import (
	"sort"
	"sync"
)

// State is the per-client set of visible tool names. Discovered names only
// grow via Union until Reset; the always-available set is configuration and
// survives Reset.
//
// State is safe for concurrent use, but concurrent conversation turns on the
// same client may interleave unions non-deterministically.
type State struct {
	mu         sync.RWMutex
	always     map[string]struct{}
	discovered map[string]struct{}
}

// NewState creates a State seeded with the always-available names.
func NewState(alwaysAvailable []string) *State {
	always := make(map[string]struct{}, len(alwaysAvailable))
	for _, name := range alwaysAvailable {
		always[name] = struct{}{}
	}
	return &State{
		always:     always,
		discovered: make(map[string]struct{}),
	}
}

// Union adds names to the discovered set. Idempotent.
func (s *State) Union(names []string) {
	if len(names) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.discovered[name] = struct{}{}
	}
}

// Visible reports whether a name is currently visible to the model.
func (s *State) Visible(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.always[name]; ok {
		return true
	}
	_, ok := s.discovered[name]
	return ok
}

// Discovered returns the discovered names, sorted for stable iteration.
func (s *State) Discovered() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.discovered))
	for name := range s.discovered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VisibleNames returns the union of always-available and discovered names,
// sorted.
func (s *State) VisibleNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{}, len(s.always)+len(s.discovered))
	for name := range s.always {
		set[name] = struct{}{}
	}
	for name := range s.discovered {
		set[name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of discovered names.
func (s *State) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.discovered)
}

// Reset empties the discovered set. Always-available names stay visible.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered = make(map[string]struct{})
}
