// Package registry defines the facility directory interface and errors.
package registry

import (
	"context"

	"github.com/okian/triago/internal/domain/model"
)

// Store provides read/write access to the facility directory.
type Store interface {
	// Put inserts or replaces a facility record.
	// Returns ErrInvalidFacility when the record fails validation.
	Put(ctx context.Context, f model.Facility) error

	// Get returns the facility with the given id.
	// Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (model.Facility, error)

	// List returns all facilities in unspecified order.
	List(ctx context.Context) []model.Facility

	// SetQueueLength updates the live queue length for a facility.
	// Returns ErrNotFound for unknown ids, ErrInvalidFacility for negative lengths.
	SetQueueLength(ctx context.Context, id string, length int) error

	// Count returns the number of facilities tracked.
	Count(ctx context.Context) int
}
