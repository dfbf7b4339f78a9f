package model

import (
	"context"
	"strconv"
	"time"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/helper"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgtype"
	pgtypeuuid "github.com/jackc/pgtype/ext/gofrs-uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Thread is a forum discussion thread.
type Thread struct {
	Entity

	Title     string `json:"title,omitempty"`
	Category  string `json:"category,omitempty"`
	PostCount int32  `json:"postCount,omitempty"`
	Locked    bool   `json:"locked,omitempty"`
}

type ThreadBatch Batch[Thread]

// Post is a single message inside a thread.
type Post struct {
	EntityTrait

	UserId uuid.UUID `json:"userId"`
	Text   string    `json:"text"`

	Timestamps
}

type PostBatch Batch[Post]

type IndexThreadRequest struct {
	Offset   *int64  `json:"offset,omitempty"`
	Limit    *int64  `json:"limit,omitempty"`
	Search   *string `json:"search,omitempty"`
	Category *string `json:"category,omitempty"`
}

// IndexThread lists forum threads with optional search and category filter.
func IndexThread(ctx context.Context, requester *User, request IndexThreadRequest) (batch *ThreadBatch, err error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	batch = &ThreadBatch{
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

	qt = `select count(t.id) from threads t left join entities e on t.id = e.id where true`
	q = `select e.id, e.created_at, e.updated_at, e.entity_type, e.views, e.public, t.title, t.category, t.post_count, t.locked
	from threads t left join entities e on t.id = e.id where true`

	if request.Search != nil {
		qArgNum++
		qArgs = append(qArgs, "%"+helper.SanitizeLikeClause(*request.Search)+"%")
		qtArgNum++
		qtArgs = append(qtArgs, "%"+helper.SanitizeLikeClause(*request.Search)+"%")
		qt += ` and t.title ilike $` + strconv.Itoa(qtArgNum)
		q += ` and t.title ilike $` + strconv.Itoa(qArgNum)
	}

	if request.Category != nil && *request.Category != "" {
		qArgNum++
		qArgs = append(qArgs, *request.Category)
		qtArgNum++
		qtArgs = append(qtArgs, *request.Category)
		qt += ` and t.category = $` + strconv.Itoa(qtArgNum)
		q += ` and t.category = $` + strconv.Itoa(qArgNum)
	}

	row := db.QueryRow(ctx, qt, qtArgs...)
	if err = row.Scan(&batch.Total); err != nil {
		return nil, errors.Wrap(err, "failed to count threads")
	}

	qArgNum += 2
	q += ` order by e.updated_at desc nulls last limit $` + strconv.Itoa(qArgNum-1) + ` offset $` + strconv.Itoa(qArgNum)
	qArgs = append(qArgs, batch.Limit, batch.Offset)

	rows, err := db.Query(ctx, q, qArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to index threads")
	}

	defer rows.Close()
	for rows.Next() {
		var (
			thread Thread

			entityId        pgtypeuuid.UUID
			entityCreatedAt pgtype.Timestamptz
			entityUpdatedAt pgtype.Timestamptz
			entityType      pgtype.Text
			entityViews     pgtype.Int4
			entityPublic    pgtype.Bool
			title           pgtype.Text
			category        pgtype.Text
			postCount       pgtype.Int4
			locked          pgtype.Bool
		)

		err = rows.Scan(&entityId,
			&entityCreatedAt,
			&entityUpdatedAt,
			&entityType,
			&entityViews,
			&entityPublic,
			&title,
			&category,
			&postCount,
			&locked)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan thread")
		}

		if entityId.Status == pgtype.Present {
			thread.Id = entityId.UUID
		}
		if entityCreatedAt.Status == pgtype.Present {
			thread.CreatedAt = entityCreatedAt.Time
		}
		if entityUpdatedAt.Status == pgtype.Present {
			t := entityUpdatedAt.Time
			thread.UpdatedAt = &t
		}
		if entityType.Status == pgtype.Present {
			thread.EntityType = entityType.String
		}
		if entityViews.Status == pgtype.Present {
			thread.Views = entityViews.Int
		}
		if entityPublic.Status == pgtype.Present {
			thread.Public = entityPublic.Bool
		}
		if title.Status == pgtype.Present {
			thread.Title = title.String
		}
		if category.Status == pgtype.Present {
			thread.Category = category.String
		}
		if postCount.Status == pgtype.Present {
			thread.PostCount = postCount.Int
		}
		if locked.Status == pgtype.Present {
			thread.Locked = locked.Bool
		}

		batch.Entities = append(batch.Entities, thread)
	}

	return batch, nil
}

type CreatePostRequest struct {
	ThreadId uuid.UUID `json:"threadId" validate:"required"`
	Text     string    `json:"text" validate:"required"`
}

// CreatePost appends a post to the thread and bumps its post counter.
func CreatePost(ctx context.Context, requester *User, request CreatePostRequest) (post *Post, err error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	exists, err := EntityExists(ctx, request.ThreadId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate post id")
	}

	now := time.Now().UTC()

	q := `insert into posts (id, thread_id, user_id, text, created_at) values ($1::uuid, $2::uuid, $3::uuid, $4, $5)`
	if _, err = db.Exec(ctx, q, id, request.ThreadId, requester.Id, request.Text, now); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	q = `update threads set post_count = post_count + 1 where id = $1::uuid`
	if _, err = db.Exec(ctx, q, request.ThreadId); err != nil {
		return nil, errors.Wrap(err, "failed to bump thread post count")
	}

	threadId := request.ThreadId
	post = &Post{
		EntityTrait: EntityTrait{
			Identifier: Identifier{Id: id},
			EntityId:   &threadId,
		},
		UserId: requester.Id,
		Text:   request.Text,
	}
	post.CreatedAt = now

	return post, nil
}
