package gesture

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Registry holds gesture definitions keyed by id. Iteration follows
// registration order, which is also the recognizer's tie-break order.
type Registry struct {
	mu       sync.RWMutex
	gestures map[string]*Gesture
	order    []string
	now      func() time.Time
}

// NewRegistry creates a registry seeded with the builtin set.
func NewRegistry() *Registry {
	r := &Registry{
		gestures: make(map[string]*Gesture),
		now:      time.Now,
	}
	r.seedLocked()
	return r
}

func (r *Registry) seedLocked() {
	for _, g := range Builtins() {
		r.insertLocked(g)
	}
}

func (r *Registry) insertLocked(g Gesture) {
	if _, exists := r.gestures[g.ID]; !exists {
		r.order = append(r.order, g.ID)
	}
	g = g.clone()
	r.gestures[g.ID] = &g
}

func (r *Registry) removeLocked(id string) {
	delete(r.gestures, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// All returns a snapshot of every gesture in registration order.
func (r *Registry) All() []Gesture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Gesture, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.gestures[id].clone())
	}
	return out
}

// Get returns a snapshot of the gesture with the given id.
func (r *Registry) Get(id string) (Gesture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gestures[id]
	if !ok {
		return Gesture{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g.clone(), nil
}

// ListByChannel returns the enabled gestures of a channel in registration order.
func (r *Registry) ListByChannel(channel Channel) []Gesture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Gesture
	for _, id := range r.order {
		g := r.gestures[id]
		if g.Enabled && g.Channel == channel {
			out = append(out, g.clone())
		}
	}
	return out
}

// Create registers a new gesture. An empty id is filled with a fresh one.
func (r *Registry) Create(g Gesture) (Gesture, error) {
	if len(g.Pattern.Directions) == 0 {
		return Gesture{}, ErrEmptyPattern
	}
	if g.ID == "" {
		g.ID = NewID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gestures[g.ID]; exists {
		return Gesture{}, fmt.Errorf("%w: id %s already registered", ErrConflict, g.ID)
	}
	if other := r.conflictLocked(g); other != nil {
		return Gesture{}, fmt.Errorf("%w: %q", ErrConflict, other.Name)
	}

	r.insertLocked(g)
	return g.clone(), nil
}

// conflictLocked finds another enabled gesture of the same channel with an identical direction sequence.
func (r *Registry) conflictLocked(g Gesture) *Gesture {
	for _, id := range r.order {
		other := r.gestures[id]
		if other.ID != g.ID &&
			other.Enabled &&
			other.Channel == g.Channel &&
			slices.Equal(other.Pattern.Directions, g.Pattern.Directions) {
			return other
		}
	}
	return nil
}

// Update applies the provided fields. Conflicts are not re-checked.
func (r *Registry) Update(id string, u Update) (Gesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gestures[id]
	if !ok {
		return Gesture{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Pattern != nil {
		g.Pattern = *u.Pattern
		g.Pattern.Directions = slices.Clone(u.Pattern.Directions)
	}
	if u.Action != nil {
		g.Action = *u.Action
	}
	if u.Enabled != nil {
		g.Enabled = *u.Enabled
	}
	return g.clone(), nil
}

// Delete removes a custom gesture.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gestures[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if g.IsBuiltin {
		return fmt.Errorf("%w: %q", ErrCannotDeleteBuiltin, g.Name)
	}
	r.removeLocked(id)
	return nil
}

// Toggle flips the enabled flag and returns the new value.
func (r *Registry) Toggle(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gestures[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	g.Enabled = !g.Enabled
	return g.Enabled, nil
}

// ResetToDefaults replaces every builtin with a fresh copy of the builtin set.
// Custom gestures are kept unchanged, after the builtins in registration order.
func (r *Registry) ResetToDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var custom []Gesture
	for _, id := range r.order {
		if g := r.gestures[id]; !g.IsBuiltin {
			custom = append(custom, *g)
		}
	}

	r.gestures = make(map[string]*Gesture, len(builtinDefs)+len(custom))
	r.order = r.order[:0]
	r.seedLocked()
	for _, g := range custom {
		r.insertLocked(g)
	}
}

// RecordMatch bumps the usage count and last-used time of a gesture and
// returns the updated snapshot.
func (r *Registry) RecordMatch(id string) (Gesture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gestures[id]
	if !ok {
		return Gesture{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	now := r.now().UTC()
	g.UsageCount++
	g.LastUsed = &now
	return g.clone(), nil
}

// Insert adds gestures without pattern or conflict validation, forcing them
// to be custom and giving each a fresh id. It returns the inserted snapshots.
func (r *Registry) Insert(gs ...Gesture) []Gesture {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Gesture, 0, len(gs))
	for _, g := range gs {
		g.IsBuiltin = false
		g.ID = NewID()
		if g.CreatedAt.IsZero() {
			g.CreatedAt = r.now().UTC()
		}
		r.insertLocked(g)
		out = append(out, g.clone())
	}
	return out
}

// InsertOverriding inserts gs like Insert and disables every enabled builtin
// that shares a channel and direction sequence with one of them, so the new
// gestures are not shadowed by the earlier registration. It returns the
// inserted gestures and the builtins it disabled.
func (r *Registry) InsertOverriding(gs ...Gesture) (inserted, disabled []Gesture) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range gs {
		for _, id := range r.order {
			b := r.gestures[id]
			if b.IsBuiltin && b.Enabled &&
				b.Channel == g.Channel &&
				slices.Equal(b.Pattern.Directions, g.Pattern.Directions) {
				b.Enabled = false
				disabled = append(disabled, b.clone())
			}
		}

		g.IsBuiltin = false
		g.ID = NewID()
		if g.CreatedAt.IsZero() {
			g.CreatedAt = r.now().UTC()
		}
		r.insertLocked(g)
		inserted = append(inserted, g.clone())
	}
	return inserted, disabled
}

// Restore re-attaches persisted state. Builtins only carry over their
// enabled flag and usage; unknown builtins are dropped. Custom gestures are
// inserted as stored. It reports whether g was applied.
func (r *Registry) Restore(g Gesture) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.IsBuiltin {
		cur, ok := r.gestures[g.ID]
		if !ok || !cur.IsBuiltin {
			return false
		}
		cur.Enabled = g.Enabled
		cur.UsageCount = g.UsageCount
		cur.LastUsed = g.LastUsed
		return true
	}

	r.insertLocked(g)
	return true
}

// Custom returns the non-builtin gestures in registration order.
func (r *Registry) Custom() []Gesture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Gesture
	for _, id := range r.order {
		if g := r.gestures[id]; !g.IsBuiltin {
			out = append(out, g.clone())
		}
	}
	return out
}

// Len returns the number of registered gestures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gestures)
}
