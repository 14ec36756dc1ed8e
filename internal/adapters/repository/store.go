// Package repository defines the dataset registry interface and errors.
//
// The registry memoizes normalized tables: datasets are addressed by an
// opaque ID and deduplicated by a content hash of the uploaded bytes
// combined with the normalization version, so re-uploading the same file
// never re-runs normalization.
package repository

import (
	"context"
	"time"

	"github.com/podiumhq/podium/internal/domain/model"
)

// Dataset is one normalized table plus its registry metadata.
type Dataset struct {
	ID        string
	Hash      uint64 // xxh3 of the raw input bytes mixed with the schema version
	Rows      int
	CreatedAt time.Time
	Table     model.Table
}

// Store provides access to normalized datasets.
type Store interface {
	// Put registers a dataset. The oldest dataset is evicted when the
	// store is at capacity.
	Put(ctx context.Context, ds Dataset) error

	// Get returns the dataset with the given ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (Dataset, error)

	// FindByHash returns the dataset with the given content hash, if any.
	FindByHash(ctx context.Context, hash uint64) (Dataset, bool)

	// Delete removes a dataset. Removing an unknown ID is a no-op.
	Delete(ctx context.Context, id string)

	// Len returns the number of datasets currently held.
	Len(ctx context.Context) int

	// IDs returns all dataset IDs in insertion order.
	IDs(ctx context.Context) []string
}
