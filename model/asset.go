package model

import (
	"context"
	"strconv"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/helper"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgtype"
	pgtypeuuid "github.com/jackc/pgtype/ext/gofrs-uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Asset is a shared game asset users rate, vote on and favorite.
type Asset struct {
	Entity

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Version     string `json:"version,omitempty"`
	Downloads   int32  `json:"downloads,omitempty"`
}

type AssetBatch Batch[Asset]

type IndexAssetRequest struct {
	Offset   *int64  `json:"offset,omitempty"`
	Limit    *int64  `json:"limit,omitempty"`
	Search   *string `json:"search,omitempty"`
	Category *string `json:"category,omitempty"`
}

// IndexAsset lists assets visible to the requester with optional search.
// Aggregate summaries are not joined here, listings read the denormalized
// columns only, GetAsset attaches the live summaries.
func IndexAsset(ctx context.Context, requester *User, request IndexAssetRequest) (batch *AssetBatch, err error) {
	// validate requester
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	// get database connection
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return nil, ErrNoDatabase
	}

	// response data
	batch = &AssetBatch{
		Offset: 0,
		Limit:  100,
		Total:  0,
	}

	// set offset if it is in a valid range
	if request.Offset != nil && *request.Offset >= 0 {
		batch.Offset = *request.Offset
	}

	// set limit if it is in a valid range
	if request.Limit != nil && *request.Limit > 0 && *request.Limit <= 100 {
		batch.Limit = *request.Limit
	}

	var (
		qt       string           // total query
		qtArgs   = make([]any, 0) // total query args
		qtArgNum = 0              // total query arg number
		q        string           // query
		qArgs    = make([]any, 0) // query args
		qArgNum  = 0              // query arg number
		rows     pgx.Rows         // rows
	)

	// base for total query
	qt = `select count(m.id) from assets m left join entities e on m.id = e.id`

	// query select
	q = `select e.id, e.created_at, e.updated_at, e.entity_type, e.views, e.public, m.name, m.description, m.category, m.version, m.downloads`

	// query from
	q += ` from assets m left join entities e on m.id = e.id`

	// query where
	if !requester.IsAdmin {
		// if the requester is not an admin, only show public entities and entities the requester has access to
		qArgNum++
		qArgs = append(qArgs, requester.Id)
		qtArgNum++
		qtArgs = append(qtArgs, requester.Id)
		qt += ` left join accessibles a on e.id = a.entity_id and a.user_id = $` + strconv.Itoa(qtArgNum)
		q += ` left join accessibles a on e.id = a.entity_id and a.user_id = $` + strconv.Itoa(qArgNum)
		qt += ` where (e.public or (a.is_owner or a.can_view))`
		q += ` where (e.public or (a.is_owner or a.can_view))`
	} else {
		// if the requester is an admin, show all entities
		qt += ` where true`
		q += ` where true`
	}

	// query search by name or description
	if request.Search != nil {
		qArgNum++
		qArgs = append(qArgs, "%"+helper.SanitizeLikeClause(*request.Search)+"%")
		qtArgNum++
		qtArgs = append(qtArgs, "%"+helper.SanitizeLikeClause(*request.Search)+"%")
		qt += ` and (m.name ilike $` + strconv.Itoa(qtArgNum) + ` or m.description ilike $` + strconv.Itoa(qtArgNum) + `) `
		q += ` and (m.name ilike $` + strconv.Itoa(qArgNum) + ` or m.description ilike $` + strconv.Itoa(qArgNum) + `) `
	}

	// query filter by category
	if request.Category != nil && *request.Category != "" {
		qArgNum++
		qArgs = append(qArgs, *request.Category)
		qtArgNum++
		qtArgs = append(qtArgs, *request.Category)
		qt += ` and m.category = $` + strconv.Itoa(qtArgNum)
		q += ` and m.category = $` + strconv.Itoa(qArgNum)
	}

	// get total count
	row := db.QueryRow(ctx, qt, qtArgs...)
	if err = row.Scan(&batch.Total); err != nil {
		return nil, errors.Wrap(err, "failed to count assets")
	}

	// apply pagination
	qArgNum += 2
	q += ` order by e.created_at desc limit $` + strconv.Itoa(qArgNum-1) + ` offset $` + strconv.Itoa(qArgNum)
	qArgs = append(qArgs, batch.Limit, batch.Offset)

	rows, err = db.Query(ctx, q, qArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to index assets")
	}

	defer rows.Close()
	for rows.Next() {
		var (
			asset Asset

			entityId        pgtypeuuid.UUID
			entityCreatedAt pgtype.Timestamptz
			entityUpdatedAt pgtype.Timestamptz
			entityType      pgtype.Text
			entityViews     pgtype.Int4
			entityPublic    pgtype.Bool
			name            pgtype.Text
			description     pgtype.Text
			category        pgtype.Text
			version         pgtype.Text
			downloads       pgtype.Int4
		)

		err = rows.Scan(&entityId,
			&entityCreatedAt,
			&entityUpdatedAt,
			&entityType,
			&entityViews,
			&entityPublic,
			&name,
			&description,
			&category,
			&version,
			&downloads)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan asset")
		}

		if entityId.Status == pgtype.Present {
			asset.Id = entityId.UUID
		}
		if entityCreatedAt.Status == pgtype.Present {
			asset.CreatedAt = entityCreatedAt.Time
		}
		if entityUpdatedAt.Status == pgtype.Present {
			t := entityUpdatedAt.Time
			asset.UpdatedAt = &t
		}
		if entityType.Status == pgtype.Present {
			asset.EntityType = entityType.String
		}
		if entityViews.Status == pgtype.Present {
			asset.Views = entityViews.Int
		}
		if entityPublic.Status == pgtype.Present {
			asset.Public = entityPublic.Bool
		}
		if name.Status == pgtype.Present {
			asset.Name = name.String
		}
		if description.Status == pgtype.Present {
			asset.Description = description.String
		}
		if category.Status == pgtype.Present {
			asset.Category = category.String
		}
		if version.Status == pgtype.Present {
			asset.Version = version.String
		}
		if downloads.Status == pgtype.Present {
			asset.Downloads = downloads.Int
		}

		batch.Entities = append(batch.Entities, asset)
	}

	return batch, nil
}

type GetAssetRequest struct {
	Id uuid.UUID `json:"id" validate:"required"`
}

// GetAsset fetches one asset and, when a document store is configured in
// the context, attaches the live aggregate summaries.
func GetAsset(ctx context.Context, requester *User, request GetAssetRequest) (asset *Asset, err error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	ok, err := RequestCanViewEntity(ctx, requester, request.Id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoPermission
	}

	db, okDb := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !okDb || db == nil {
		return nil, ErrNoDatabase
	}

	q := `select e.id, e.created_at, e.updated_at, e.entity_type, e.views, e.public, m.name, m.description, m.category, m.version, m.downloads
	from assets m
	inner join entities e on m.id = e.id
	where m.id = $1::uuid`

	var (
		a Asset

		entityId        pgtypeuuid.UUID
		entityCreatedAt pgtype.Timestamptz
		entityUpdatedAt pgtype.Timestamptz
		entityType      pgtype.Text
		entityViews     pgtype.Int4
		entityPublic    pgtype.Bool
		name            pgtype.Text
		description     pgtype.Text
		category        pgtype.Text
		version         pgtype.Text
		downloads       pgtype.Int4
	)
	err = db.QueryRow(ctx, q, request.Id).Scan(&entityId,
		&entityCreatedAt,
		&entityUpdatedAt,
		&entityType,
		&entityViews,
		&entityPublic,
		&name,
		&description,
		&category,
		&version,
		&downloads)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entityId.Status == pgtype.Present {
		a.Id = entityId.UUID
	}
	if entityCreatedAt.Status == pgtype.Present {
		a.CreatedAt = entityCreatedAt.Time
	}
	if entityUpdatedAt.Status == pgtype.Present {
		t := entityUpdatedAt.Time
		a.UpdatedAt = &t
	}
	if entityType.Status == pgtype.Present {
		a.EntityType = entityType.String
	}
	if entityViews.Status == pgtype.Present {
		a.Views = entityViews.Int
	}
	if entityPublic.Status == pgtype.Present {
		a.Public = entityPublic.Bool
	}
	if name.Status == pgtype.Present {
		a.Name = name.String
	}
	if description.Status == pgtype.Present {
		a.Description = description.String
	}
	if category.Status == pgtype.Present {
		a.Category = category.String
	}
	if version.Status == pgtype.Present {
		a.Version = version.String
	}
	if downloads.Status == pgtype.Present {
		a.Downloads = downloads.Int
	}

	attachAggregates(ctx, &a.Entity)

	return &a, nil
}
