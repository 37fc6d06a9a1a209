// Package store persists saved gallery records.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: in-memory storage for development/testing
//   - file: a single JSON blob with read-whole/write-whole semantics,
//     mirroring the browser local-storage model the theme used
//   - redis: Redis-backed storage for production deployments
//   - mongo: MongoDB-backed storage
//   - postgres: PostgreSQL-backed storage
//
// # Save semantics
//
// By default every save mints a fresh record id, so re-saving under the same
// name versions the gallery rather than replacing it. Passing
// SaveOptions.Overwrite reuses the id of the newest record with the same
// name, turning the save into an update-in-place. Both behaviors are
// first-class; the caller chooses.
//
// The persisted store is shared mutable state with no transaction guarantee
// across processes (or browser tabs, historically). Backends do
// read-modify-write; concurrent writers can race and last-write-wins.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// SavedGallery is one persisted gallery composition with its metadata.
type SavedGallery struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Document  codec.Document `json:"document" bson:"document"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// SaveOptions controls how Save treats records that share a name.
type SaveOptions struct {
	// Overwrite reuses the id (and CreatedAt) of the newest existing record
	// with the same name instead of minting a new one.
	Overwrite bool
}

// Store is the interface for saved-gallery storage backends.
type Store interface {
	// Save persists a gallery under the given name. The name is validated;
	// an empty name is rejected with INVALID_NAME and nothing is written.
	Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error)

	// Get retrieves a record by id. A missing id returns GALLERY_NOT_FOUND.
	Get(ctx context.Context, id string) (*SavedGallery, error)

	// List returns all records, newest first by UpdatedAt.
	List(ctx context.Context) ([]*SavedGallery, error)

	// Delete removes a record. Deleting a missing id returns
	// GALLERY_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewID mints a record id. Replaces the theme's timestamp-based ids, which
// collided when two saves landed in the same millisecond.
func NewID() string {
	return uuid.NewString()
}

// notFound is the shared miss error for all backends.
func notFound(id string) error {
	return errors.New(errors.ErrCodeGalleryNotFound, "no saved gallery with id %q", id)
}

// sortNewestFirst orders records by UpdatedAt descending, the order every
// backend's List must return.
func sortNewestFirst(records []*SavedGallery) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
}

// prepare validates the name and decides the record identity for a save:
// either a fresh id or, with Overwrite, the identity of the newest existing
// record with the same name. existing is the backend's current record list.
func prepare(name string, opts SaveOptions, existing []*SavedGallery) (*SavedGallery, error) {
	if err := errors.ValidateGalleryName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &SavedGallery{
		ID:        NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if opts.Overwrite {
		sortNewestFirst(existing)
		for _, prev := range existing {
			if prev.Name == name {
				rec.ID = prev.ID
				rec.CreatedAt = prev.CreatedAt
				break
			}
		}
	}
	return rec, nil
}
