package store

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

type testDocument struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	var missing testDocument
	_, err := s.Load(ctx, id, &missing)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Insert(ctx, id, &testDocument{Name: "first", Count: 1}))
	require.ErrorIs(t, s.Insert(ctx, id, &testDocument{Name: "dup"}), ErrAlreadyExists)

	var doc testDocument
	version, err := s.Load(ctx, id, &doc)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)
	require.Equal(t, "first", doc.Name)

	doc.Count = 2
	require.NoError(t, s.Save(ctx, id, &doc, version))
	require.EqualValues(t, 2, s.Version(id))

	// a save against the stale version must not overwrite
	require.ErrorIs(t, s.Save(ctx, id, &testDocument{Name: "stale"}, version), ErrVersionMismatch)

	version, err = s.Load(ctx, id, &doc)
	require.NoError(t, err)
	require.EqualValues(t, 2, version)
	require.Equal(t, 2, doc.Count)
}

func TestMemoryStoreSaveMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	require.ErrorIs(t, s.Save(ctx, id, &testDocument{}, 1), ErrNotFound)
}

func TestMemoryStoreNoAliasing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	original := &testDocument{Name: "stored", Count: 1}
	require.NoError(t, s.Insert(ctx, id, original))

	// mutating the caller's value after the insert must not leak into the store
	original.Name = "mutated"

	var doc testDocument
	_, err := s.Load(ctx, id, &doc)
	require.NoError(t, err)
	require.Equal(t, "stored", doc.Name)
}

func TestMemoryStoreSaveHook(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := uuid.FromStringOrNil("684D9ACB-C7B0-4FE6-BBAA-E2FA333B6DC5")

	require.NoError(t, s.Insert(ctx, id, &testDocument{}))

	s.SaveHook = func(uuid.UUID) error { return ErrVersionMismatch }
	require.ErrorIs(t, s.Save(ctx, id, &testDocument{}, 1), ErrVersionMismatch)

	s.SaveHook = nil
	require.NoError(t, s.Save(ctx, id, &testDocument{}, 1))
}
