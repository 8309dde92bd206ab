package registry

import (
	"fmt"
	"sync"
)

// Store is the project-wide, thread-safe registry of every addressable
// entity: targets, and the broadcast table they share. It plays the
// same role barn's object store plays for MOO objects — a single
// mutex-guarded map that the rest of the system reaches through
// rather than passing pointers around ad hoc — except entities here
// are addressed by opaque string IDs (as Scratch project JSON does)
// rather than sequential integers.
type Store struct {
	mu         sync.RWMutex
	targets    map[string]*Target
	broadcasts map[string]*Broadcast
	stage      *Target
	order      []string // sprite IDs in creation order, for layer defaults
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		targets:    make(map[string]*Target),
		broadcasts: make(map[string]*Broadcast),
	}
}

// AddTarget registers a target. A target with IsStage == true becomes
// the store's stage, replacing any stage added before it.
func (s *Store) AddTarget(t *Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[t.ID] = t
	if t.IsStage {
		s.stage = t
	} else {
		s.order = append(s.order, t.ID)
	}
}

// RemoveTarget deletes a target, e.g. when a clone is destroyed.
func (s *Store) RemoveTarget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.targets, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Target returns the target with the given ID.
func (s *Store) Target(id string) (*Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[id]
	return t, ok
}

// Stage returns the project's stage target.
func (s *Store) Stage() *Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// Sprites returns every non-stage target in creation order, the order
// new sprites are laid out in when a project first loads.
func (s *Store) Sprites() []*Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Target, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.targets[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// AddBroadcast registers a broadcast channel.
func (s *Store) AddBroadcast(b *Broadcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts[b.ID] = b
}

// Broadcast returns the broadcast with the given ID.
func (s *Store) Broadcast(id string) (*Broadcast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.broadcasts[id]
	return b, ok
}

// BroadcastByName finds a broadcast by its display name, the way a
// "broadcast [message]" dropdown resolves its selection.
func (s *Store) BroadcastByName(name string) (*Broadcast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.broadcasts {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// FindVariable resolves a variable ID against t's own variables first,
// then the stage's globals, matching Scratch's local-shadows-global
// scoping rule.
func (s *Store) FindVariable(t *Target, id string) (*Variable, bool) {
	if v, ok := t.LookupVariable(id); ok {
		return v, true
	}
	stage := s.Stage()
	if stage != nil && stage != t {
		if v, ok := stage.LookupVariable(id); ok {
			return v, true
		}
	}
	return nil, false
}

// FindList mirrors FindVariable for lists.
func (s *Store) FindList(t *Target, id string) (*List, bool) {
	if l, ok := t.LookupList(id); ok {
		return l, true
	}
	stage := s.Stage()
	if stage != nil && stage != t {
		if l, ok := stage.LookupList(id); ok {
			return l, true
		}
	}
	return nil, false
}

// ResolveBlockLinks rewrites every block's ID-based Parent/Next/Input
// links into direct pointers, once every target's block table has been
// populated. It must run after all targets are added, since a block's
// input can plug in a reporter belonging to the same target that
// hasn't been indexed yet during a single top-down pass.
func (s *Store) ResolveBlockLinks() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.targets {
		for _, b := range t.Blocks {
			if b.ParentID != "" {
				p, ok := t.Blocks[b.ParentID]
				if !ok {
					return fmt.Errorf("block %s: unresolved parent %s", b.ID, b.ParentID)
				}
				b.ParentBlock = p
			}
			if b.NextID != "" {
				n, ok := t.Blocks[b.NextID]
				if !ok {
					return fmt.Errorf("block %s: unresolved next %s", b.ID, b.NextID)
				}
				b.NextBlock = n
			}
			for name, in := range b.Inputs {
				if in.ValueID == "" {
					continue
				}
				ib, ok := t.Blocks[in.ValueID]
				if !ok {
					return fmt.Errorf("block %s: unresolved input %s -> %s", b.ID, name, in.ValueID)
				}
				b.InputBlocks[name] = ib
			}
		}
	}
	return nil
}
