// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block
//   - Return domain types, never external DTOs or infrastructure types
//   - Errors use domain error types (ErrLoadFailure, ErrEmptyDataset, ...)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// DatasetSource acquires a dataset document from one place (a local file,
// a remote URL). Implementations perform I/O on every call and do not cache.
type DatasetSource interface {
	// Name identifies the source in logs and load errors.
	Name() string

	// Load reads and decodes the dataset.
	// Returns domain.ErrLoadFailure for unreadable or malformed documents.
	Load(ctx context.Context) (*domain.Dataset, error)
}

// DatasetProvider hands out the process-wide dataset to request handlers.
//
// The standalone server uses a provider that was filled once at startup.
// The edge handler uses one that loads on first use and retries after a failure.
type DatasetProvider interface {
	// Dataset returns the loaded dataset.
	// Returns domain.ErrLoadFailure if the dataset is not (yet) available.
	Dataset(ctx context.Context) (*domain.Dataset, error)
}

// IndexSource draws indexes for random selection.
// Tests substitute a fixed source to pin outcomes.
type IndexSource interface {
	// IntN returns a uniformly distributed index in [0, n). n is always > 0.
	IntN(n int) int
}
