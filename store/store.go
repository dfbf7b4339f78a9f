// Package store provides the versioned document storage the aggregate
// engine folds against. Every document carries a version number, saves are
// compare-and-swap on that version so concurrent read-modify-write cycles
// fail instead of losing updates.
package store

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
)

var (
	// ErrNotFound No document stored under the id.
	ErrNotFound = errors.New("document not found")
	// ErrVersionMismatch The document changed since it was loaded.
	ErrVersionMismatch = errors.New("document version mismatch")
	// ErrAlreadyExists Insert target already present.
	ErrAlreadyExists = errors.New("document already exists")
)

// Store is a versioned document store.
type Store interface {
	// Load reads the document into out and returns its current version.
	Load(ctx context.Context, id uuid.UUID, out any) (int64, error)
	// Save replaces the document if its stored version still equals
	// expectedVersion, otherwise fails with ErrVersionMismatch.
	Save(ctx context.Context, id uuid.UUID, doc any, expectedVersion int64) error
	// Insert creates the document at version 1, fails with
	// ErrAlreadyExists if the id is taken.
	Insert(ctx context.Context, id uuid.UUID, doc any) error
}
