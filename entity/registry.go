package entity

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateID is returned when an entity is added under an ID already in use
var ErrDuplicateID = errors.New("entity: duplicate id")

// Entity is the minimal identity a registry needs
type Entity interface {
	ID() uint32
	Name() string
}

// Registry is an explicit, application-owned collection of entities of one
// kind. Enumeration is always in ascending ID order.
type Registry[T Entity] struct {
	entities map[uint32]T
	nextID   uint32
}

// NewRegistry creates an empty registry. IDs handed out by NextID start at 1.
func NewRegistry[T Entity]() *Registry[T] {
	return &Registry[T]{
		entities: make(map[uint32]T),
		nextID:   1,
	}
}

// NextID reserves an ID not used by any entity in the registry
func (r *Registry[T]) NextID() uint32 {
	for {
		id := r.nextID
		r.nextID++
		if _, ok := r.entities[id]; !ok {
			return id
		}
	}
}

// Add registers e under its ID
func (r *Registry[T]) Add(e T) error {
	if _, ok := r.entities[e.ID()]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, e.ID())
	}
	r.entities[e.ID()] = e

	return nil
}

// Remove unregisters the entity with the given ID, if present
func (r *Registry[T]) Remove(id uint32) {
	delete(r.entities, id)
}

// Get returns the entity registered under id
func (r *Registry[T]) Get(id uint32) (T, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// ByName returns the lowest-ID entity with the given name
func (r *Registry[T]) ByName(name string) (T, bool) {
	for _, id := range r.ids() {
		if e := r.entities[id]; e.Name() == name {
			return e, true
		}
	}

	var zero T
	return zero, false
}

func (r *Registry[T]) Len() int {
	return len(r.entities)
}

// Each calls fn for every entity in ascending ID order. The set of IDs is
// captured before the first call, so fn may remove entities.
func (r *Registry[T]) Each(fn func(e T)) {
	for _, id := range r.ids() {
		if e, ok := r.entities[id]; ok {
			fn(e)
		}
	}
}

// All returns the entities in ascending ID order
func (r *Registry[T]) All() []T {
	all := make([]T, 0, len(r.entities))
	r.Each(func(e T) {
		all = append(all, e)
	})

	return all
}

func (r *Registry[T]) ids() []uint32 {
	ids := make([]uint32, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
