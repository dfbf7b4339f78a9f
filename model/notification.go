package model

import (
	"context"
	"strconv"
	"time"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgtype"
	pgtypeuuid "github.com/jackc/pgtype/ext/gofrs-uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Notification is a stored per-user notification. Delivery is owned by the
// notification service, this library only records and lists them.
type Notification struct {
	Identifier

	UserId  uuid.UUID `json:"userId"`
	Kind    string    `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
	Read    bool      `json:"read,omitempty"`

	Timestamps
}

type NotificationBatch Batch[Notification]

type ReportNotificationRequest struct {
	UserId  uuid.UUID `json:"userId" validate:"required"`
	Kind    string    `json:"kind" validate:"required"`
	Message string    `json:"message" validate:"required"`
}

// ReportNotification stores a notification for the user.
func ReportNotification(ctx context.Context, request ReportNotificationRequest) (*Notification, error) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate notification id")
	}

	now := time.Now().UTC()

	q := `insert into notifications (id, user_id, kind, message, read, created_at) values ($1::uuid, $2::uuid, $3, $4, false, $5)`
	if _, err = db.Exec(ctx, q, id, request.UserId, request.Kind, request.Message, now); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}

	n := &Notification{
		Identifier: Identifier{Id: id},
		UserId:     request.UserId,
		Kind:       request.Kind,
		Message:    request.Message,
	}
	n.CreatedAt = now

	return n, nil
}

type IndexNotificationRequest struct {
	Offset *int64 `json:"offset,omitempty"`
	Limit  *int64 `json:"limit,omitempty"`
	Unread *bool  `json:"unread,omitempty"`
}

// IndexNotification lists the requester's notifications, newest first.
func IndexNotification(ctx context.Context, requester *User, request IndexNotificationRequest) (batch *NotificationBatch, err error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	batch = &NotificationBatch{
		Offset: 0,
		Limit:  100,
		Total:  0,
	}

	if request.Offset != nil && *request.Offset >= 0 {
		batch.Offset = *request.Offset
	}

	if request.Limit != nil && *request.Limit > 0 && *request.Limit <= 100 {
		batch.Limit = *request.Limit
	}

	var (
		qt       string
		qtArgs   = make([]any, 0)
		qtArgNum = 0
		q        string
		qArgs    = make([]any, 0)
		qArgNum  = 0
	)

	qtArgNum++
	qtArgs = append(qtArgs, requester.Id)
	qt = `select count(n.id) from notifications n where n.user_id = $` + strconv.Itoa(qtArgNum)

	qArgNum++
	qArgs = append(qArgs, requester.Id)
	q = `select n.id, n.user_id, n.kind, n.message, n.read, n.created_at from notifications n where n.user_id = $` + strconv.Itoa(qArgNum)

	if request.Unread != nil && *request.Unread {
		qt += ` and not n.read`
		q += ` and not n.read`
	}

	row := db.QueryRow(ctx, qt, qtArgs...)
	if err = row.Scan(&batch.Total); err != nil {
		return nil, errors.Wrap(err, "failed to count notifications")
	}

	qArgNum += 2
	q += ` order by n.created_at desc limit $` + strconv.Itoa(qArgNum-1) + ` offset $` + strconv.Itoa(qArgNum)
	qArgs = append(qArgs, batch.Limit, batch.Offset)

	rows, err := db.Query(ctx, q, qArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to index notifications")
	}

	defer rows.Close()
	for rows.Next() {
		var (
			n Notification

			id        pgtypeuuid.UUID
			userId    pgtypeuuid.UUID
			kind      pgtype.Text
			message   pgtype.Text
			read      pgtype.Bool
			createdAt pgtype.Timestamptz
		)

		if err = rows.Scan(&id, &userId, &kind, &message, &read, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification")
		}

		if id.Status == pgtype.Present {
			n.Id = id.UUID
		}
		if userId.Status == pgtype.Present {
			n.UserId = userId.UUID
		}
		if kind.Status == pgtype.Present {
			n.Kind = kind.String
		}
		if message.Status == pgtype.Present {
			n.Message = message.String
		}
		if read.Status == pgtype.Present {
			n.Read = read.Bool
		}
		if createdAt.Status == pgtype.Present {
			n.CreatedAt = createdAt.Time
		}

		batch.Entities = append(batch.Entities, n)
	}

	return batch, nil
}
