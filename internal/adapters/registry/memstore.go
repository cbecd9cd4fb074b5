package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/triago/internal/domain/model"
)

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithFacilities seeds the store. Invalid seed records are skipped.
func WithFacilities(facilities []model.Facility) Option {
	return func(s *InMemoryStore) {
		for _, f := range facilities {
			if validate(f) == nil {
				s.facilities[f.ID] = f
			}
		}
	}
}

// InMemoryStore implements Store with a mutex-guarded map. Facility sets are
// small (tens of records), so no sharding or ordering structure is needed.
type InMemoryStore struct {
	mu         sync.RWMutex
	facilities map[string]model.Facility
}

// NewInMemoryStore creates an empty in-memory facility directory.
func NewInMemoryStore(_ context.Context, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		facilities: make(map[string]model.Facility),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Put inserts or replaces a facility record.
func (s *InMemoryStore) Put(_ context.Context, f model.Facility) error {
	if err := validate(f); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[f.ID] = f
	return nil
}

// Get returns the facility with the given id.
func (s *InMemoryStore) Get(_ context.Context, id string) (model.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.facilities[id]
	if !ok {
		return model.Facility{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, nil
}

// List returns all facilities in unspecified order.
func (s *InMemoryStore) List(_ context.Context) []model.Facility {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		out = append(out, f)
	}
	return out
}

// SetQueueLength updates the live queue length for a facility.
func (s *InMemoryStore) SetQueueLength(_ context.Context, id string, length int) error {
	if length < 0 {
		return fmt.Errorf("%w: negative queue length", ErrInvalidFacility)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.facilities[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f.CurrentQueueLength = length
	s.facilities[id] = f
	return nil
}

// Count returns the number of facilities tracked.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facilities)
}

func validate(f model.Facility) error {
	switch {
	case f.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidFacility)
	case !f.Coordinates.Valid():
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidFacility)
	case f.EmergencyCapacity <= 0:
		return fmt.Errorf("%w: emergency capacity must be positive", ErrInvalidFacility)
	case f.CurrentQueueLength < 0:
		return fmt.Errorf("%w: negative queue length", ErrInvalidFacility)
	}
	return nil
}
