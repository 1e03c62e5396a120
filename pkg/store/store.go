// Package store persists widget documents for the preview server.
//
// A Document wraps a finished widget payload with bookkeeping metadata.
// Two backends exist: an in-memory store for development and tests, and a
// MongoDB store for deployments where maps outlive the process.
package store

import (
	"context"
	"time"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// Document is a stored widget plus metadata. The document ID is the
// widget's map ID.
type Document struct {
	ID        string            `json:"id" bson:"_id"`
	Title     string            `json:"title,omitempty" bson:"title,omitempty"`
	Widget    *mapwidget.Widget `json:"widget" bson:"widget"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// NewDocument wraps a widget in a document ready for Put.
func NewDocument(w *mapwidget.Widget, title string) (*Document, error) {
	if w == nil || w.MapID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document needs a widget with a map ID")
	}
	now := time.Now().UTC()
	return &Document{
		ID:        w.MapID,
		Title:     title,
		Widget:    w,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Store is the interface widget persistence backends implement.
type Store interface {
	// Get retrieves a document by map ID. A missing document fails with
	// ErrCodeNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, replacing any existing one with the same ID
	// and refreshing UpdatedAt.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns all stored documents ordered by ID.
	List(ctx context.Context) ([]*Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
