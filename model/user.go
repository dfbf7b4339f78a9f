package model

import (
	"context"
	"fmt"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgtype"
	pgtypeuuid "github.com/jackc/pgtype/ext/gofrs-uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	Entity

	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive,omitempty"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	IsMuted     bool   `json:"isMuted,omitempty"`
	IsBanned    bool   `json:"isBanned,omitempty"`
	Experience  int32  `json:"experience,omitempty"`
	AllowEmails bool   `json:"allowEmails,omitempty"`
}

func (u *User) String() string {
	var out = u.Entity.String()
	out += fmt.Sprintf("email: %v, ", u.Email)
	out += fmt.Sprintf("name: %v, ", u.Name)
	out += fmt.Sprintf("description: %v, ", u.Description)
	out += fmt.Sprintf("isActive: %v, ", u.IsActive)
	out += fmt.Sprintf("isAdmin: %v, ", u.IsAdmin)
	out += fmt.Sprintf("isMuted: %v, ", u.IsMuted)
	out += fmt.Sprintf("isBanned: %v, ", u.IsBanned)
	out += fmt.Sprintf("experience: %v, ", u.Experience)
	return out
}

type UserBatch Batch[User]

type GetUserByIdRequest struct {
	Id uuid.UUID `json:"id" validate:"required"`
}

func GetUserById(ctx context.Context, request GetUserByIdRequest) (e *User, err error) {
	// get the database connection
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	q := `select e.id, e.created_at, e.updated_at, e.entity_type, e.views, e.public, u.email, u.name, u.description, u.is_active, u.is_admin, u.is_muted, u.is_banned, u.experience, u.allow_emails
	from entities e
	inner join users u on e.id = u.id
	where u.id = $1::uuid`

	var (
		user User

		entityId        pgtypeuuid.UUID
		entityCreatedAt pgtype.Timestamptz
		entityUpdatedAt pgtype.Timestamptz
		entityType      pgtype.Text
		entityViews     pgtype.Int4
		entityPublic    pgtype.Bool
		email           pgtype.Text
		name            pgtype.Text
		description     pgtype.Text
		isActive        pgtype.Bool
		isAdmin         pgtype.Bool
		isMuted         pgtype.Bool
		isBanned        pgtype.Bool
		experience      pgtype.Int4
		allowEmails     pgtype.Bool
	)
	err = db.QueryRow(ctx, q, request.Id).Scan(&entityId,
		&entityCreatedAt,
		&entityUpdatedAt,
		&entityType,
		&entityViews,
		&entityPublic,
		&email,
		&name,
		&description,
		&isActive,
		&isAdmin,
		&isMuted,
		&isBanned,
		&experience,
		&allowEmails)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entityId.Status == pgtype.Present {
		user.Id = entityId.UUID
	}
	if entityCreatedAt.Status == pgtype.Present {
		user.CreatedAt = entityCreatedAt.Time
	}
	if entityUpdatedAt.Status == pgtype.Present {
		t := entityUpdatedAt.Time
		user.UpdatedAt = &t
	}
	if entityType.Status == pgtype.Present {
		user.EntityType = entityType.String
	}
	if entityViews.Status == pgtype.Present {
		user.Views = entityViews.Int
	}
	if entityPublic.Status == pgtype.Present {
		user.Public = entityPublic.Bool
	}
	if email.Status == pgtype.Present {
		user.Email = email.String
	}
	if name.Status == pgtype.Present {
		user.Name = name.String
	}
	if description.Status == pgtype.Present {
		user.Description = description.String
	}
	if isActive.Status == pgtype.Present {
		user.IsActive = isActive.Bool
	}
	if isAdmin.Status == pgtype.Present {
		user.IsAdmin = isAdmin.Bool
	}
	if isMuted.Status == pgtype.Present {
		user.IsMuted = isMuted.Bool
	}
	if isBanned.Status == pgtype.Present {
		user.IsBanned = isBanned.Bool
	}
	if experience.Status == pgtype.Present {
		user.Experience = experience.Int
	}
	if allowEmails.Status == pgtype.Present {
		user.AllowEmails = allowEmails.Bool
	}

	return &user, nil
}

// UserExists reports whether the user row is present, used before writing
// either side of the favorite relation.
func UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return false, ErrNoDatabase
	}

	q := `select 1 from users u where u.id = $1::uuid`

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
