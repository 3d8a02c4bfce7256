// Package store persists layout documents for the HTTP API.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per layout, for single-host deployments
//   - [MongoStore]: a MongoDB collection for multi-instance deployments
//
// Layouts are identified by UUIDs assigned on [Store.Put].
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bubbleset/pkg/document"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
)

// Store is the interface for layout storage backends.
type Store interface {
	// Put stores doc, assigning an ID and creation time when they are unset.
	Put(ctx context.Context, doc *document.Layout) error

	// Get returns the layout with the given ID or a LAYOUT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*document.Layout, error)

	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(ctx context.Context, id string) error

	// List returns up to limit layouts, newest first.
	List(ctx context.Context, limit int) ([]*document.Layout, error)

	Close() error
}

// prepare fills in the ID and creation time.
func prepare(doc *document.Layout) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return bserrors.New(bserrors.ErrCodeLayoutNotFound, "layout %s not found", id)
}
