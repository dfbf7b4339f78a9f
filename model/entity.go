package model

import (
	"context"
	"fmt"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entity struct {
	Identifier
	Timestamps

	EntityType  string           `json:"entityType,omitempty"`
	Public      bool             `json:"public,omitempty"`
	Views       int32            `json:"views,omitempty"`
	Owner       *User            `json:"owner,omitempty"` // use pointer to avoid infinite recursion
	Accessibles *AccessibleBatch `json:"accessibles,omitempty"`
	Comments    *CommentBatch    `json:"comments,omitempty"`

	// denormalized aggregate state for listings
	Rating    *RatingSummary `json:"rating,omitempty"`
	Tally     *VoteTally     `json:"tally,omitempty"`
	Favorites *int32         `json:"favorites,omitempty"`
}

func (e *Entity) String() string {
	var out = e.Identifier.String()
	out += e.Timestamps.String()
	out += fmt.Sprintf("\"entityType\": \"%v\", ", e.EntityType)
	out += fmt.Sprintf("\"public\": \"%v\", ", e.Public)
	out += fmt.Sprintf("\"views\": \"%v\", ", e.Views)
	if e.Owner != nil {
		out += fmt.Sprintf("\"owner\":\n\t{%v\n}, ", e.Owner.String())
	}
	if e.Accessibles != nil {
		out += fmt.Sprintf("\"accessibles\":\n\t{%v\n}, ", (*Batch[Accessible])(e.Accessibles).String())
	}
	if e.Comments != nil {
		out += fmt.Sprintf("\"comments\":\n\t{%v\n}, ", (*Batch[Comment])(e.Comments).String())
	}
	return out
}

func (e *Entity) InitAccessibles() {
	e.Accessibles = &AccessibleBatch{}
}

func (e *Entity) InitComments() {
	e.Comments = &CommentBatch{}
}

// EntityExists reports whether the entity row is present, used to translate
// a missing id into ErrNotFound before touching aggregate state.
func EntityExists(ctx context.Context, id uuid.UUID) (bool, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select 1 from entities e where e.id = $1::uuid`

	var one int32
	err := db.QueryRow(ctx, q, id).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func RequestIsOwnerOfEntity(ctx context.Context, requester *User, id uuid.UUID) (bool, error) {
	if requester == nil {
		return false, ErrNoRequester
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select a.is_owner from entities e left join accessibles a on e.id = a.entity_id where e.id = $1 and a.user_id = $2`
	rows, err := db.Query(ctx, q, id, requester.Id)
	if err != nil {
		return false, err
	}

	defer rows.Close()
	for rows.Next() {
		var a Accessible
		err := rows.Scan(&a.IsOwner)
		if err != nil {
			return false, err
		}

		if a.IsOwner {
			return true, nil
		}
	}

	return false, nil
}

func RequestCanViewEntity(ctx context.Context, requester *User, id uuid.UUID) (bool, error) {
	if requester == nil {
		return false, ErrNoRequester
	}

	if requester.IsAdmin {
		return true, nil
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select a.is_owner, can_view, public from entities e left join accessibles a on e.id = a.entity_id where e.id = $1 and a.user_id = $2`
	rows, err := db.Query(ctx, q, id, requester.Id)
	if err != nil {
		return false, err
	}

	defer rows.Close()
	for rows.Next() {
		var public bool
		var a Accessible
		err := rows.Scan(&a.IsOwner, &a.CanView, &public)
		if err != nil {
			return false, err
		}

		if a.IsOwner || a.CanView || public {
			return true, nil
		}
	}

	return false, nil
}

func RequestCanEditEntity(ctx context.Context, requester *User, id uuid.UUID) (bool, error) {
	if requester == nil {
		return false, ErrNoRequester
	}

	if requester.IsAdmin {
		return true, nil
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select a.is_owner, can_edit from entities e left join accessibles a on e.id = a.entity_id where e.id = $1 and a.user_id = $2`
	rows, err := db.Query(ctx, q, id, requester.Id)
	if err != nil {
		return false, err
	}

	defer rows.Close()
	for rows.Next() {
		var a Accessible
		err := rows.Scan(&a.IsOwner, &a.CanEdit)
		if err != nil {
			return false, err
		}

		if a.IsOwner || a.CanEdit {
			return true, nil
		}
	}

	return false, nil
}

func RequestCanDeleteEntity(ctx context.Context, requester *User, id uuid.UUID) (bool, error) {
	if requester == nil {
		return false, ErrNoRequester
	}

	if requester.IsAdmin {
		return true, nil
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select a.is_owner, can_delete from entities e left join accessibles a on e.id = a.entity_id where e.id = $1 and a.user_id = $2`
	rows, err := db.Query(ctx, q, id, requester.Id)
	if err != nil {
		return false, err
	}

	defer rows.Close()
	for rows.Next() {
		var a Accessible
		err := rows.Scan(&a.IsOwner, &a.CanDelete)
		if err != nil {
			return false, err
		}

		if a.IsOwner || a.CanDelete {
			return true, nil
		}
	}

	return false, nil
}
