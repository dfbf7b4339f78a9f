package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

type Identifier struct {
	Id uuid.UUID `json:"id,omitempty" validate:"required"`
}

func (e Identifier) String() string {
	return fmt.Sprintf("id: %v", e.Id)
}

// GetId returns the Id of the Identifier.
// Notice the receiver is a value, not a pointer, it is important for the interface to work properly on casts
func (e Identifier) GetId() uuid.UUID {
	return e.Id
}

type Identifiable interface {
	GetId() uuid.UUID
}

// Timestamps Base created/updated timestamps
type Timestamps struct {
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (t *Timestamps) String() string {
	var out = fmt.Sprintf("createdAt: %v, ", t.CreatedAt)
	out += fmt.Sprintf("updatedAt: %v, ", t.UpdatedAt)
	return out
}

// Touch sets the updated timestamp, keeping the created one intact.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = &now
}

// EntityTrait Base for traits related to the entity
type EntityTrait struct {
	Identifier
	EntityId *uuid.UUID `json:"entityId,omitempty"`
}

func (e *EntityTrait) String() string {
	var out = e.Identifier.String()
	if e.EntityId != nil {
		out += fmt.Sprintf("\"entityId\": \"%v\", ", e.EntityId)
	}
	return out
}

type Batch[T interface{}] struct {
	Entities []T    `json:"entities,omitempty"`
	Offset   int64  `json:"offset,omitempty"`
	Limit    int64  `json:"limit,omitempty"`
	Total    uint64 `json:"total,omitempty"`
}

func (b *Batch[T]) String() string {
	var out = ""
	out += fmt.Sprintf("offset: %v, ", b.Offset)
	out += fmt.Sprintf("limit: %v, ", b.Limit)
	out += fmt.Sprintf("total: %v, ", b.Total)
	out += "entities: [ "
	for _, v := range b.Entities {
		if s, ok := any(v).(fmt.Stringer); ok {
			out += fmt.Sprintf("\n\t\t%v, ", s.String())
		} else {
			out += fmt.Sprintf("\n\t\t%v, ", v)
		}
	}
	out += "], "
	return out
}

type Wrapper[T any] struct {
	Payload T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ContainsId reports whether the id is present in the slice, set semantics.
func ContainsId(a []uuid.UUID, id uuid.UUID) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// InsertId adds the id to the slice unless it is already present.
// Returns the resulting slice and whether it was changed.
func InsertId(a []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	if ContainsId(a, id) {
		return a, false
	}
	return append(a, id), true
}

// RemoveId removes the id from the slice if present.
// Returns the resulting slice and whether it was changed.
func RemoveId(a []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	for i, v := range a {
		if v == id {
			return append(a[:i], a[i+1:]...), true
		}
	}
	return a, false
}
