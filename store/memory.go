package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

type memoryDocument struct {
	data    []byte
	version int64
}

// MemoryStore is a map-backed Store. Documents go through a JSON round trip
// on load and save so callers never alias stored state. Used by tests and by
// services that keep ephemeral aggregates.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]memoryDocument

	// SaveHook, when set, runs before each save commits. Tests use it to
	// inject version conflicts.
	SaveHook func(id uuid.UUID) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[uuid.UUID]memoryDocument{}}
}

func (s *MemoryStore) Load(_ context.Context, id uuid.UUID, out any) (int64, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return 0, ErrNotFound
	}

	if err := json.Unmarshal(doc.data, out); err != nil {
		return 0, errors.Wrapf(err, "failed to decode document %s", id)
	}

	return doc.version, nil
}

func (s *MemoryStore) Save(_ context.Context, id uuid.UUID, doc any, expectedVersion int64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %s", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	if current.version != expectedVersion {
		return ErrVersionMismatch
	}

	if s.SaveHook != nil {
		if err = s.SaveHook(id); err != nil {
			return err
		}
		// the hook may have replaced the document, re-check the version
		current = s.docs[id]
		if current.version != expectedVersion {
			return ErrVersionMismatch
		}
	}

	s.docs[id] = memoryDocument{data: data, version: expectedVersion + 1}
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, id uuid.UUID, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %s", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; ok {
		return ErrAlreadyExists
	}

	s.docs[id] = memoryDocument{data: data, version: 1}
	return nil
}

// Version returns the stored version of the document, 0 when absent.
func (s *MemoryStore) Version(id uuid.UUID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[id].version
}
