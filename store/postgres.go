package store

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PostgresStore keeps documents in a single jsonb table:
//
//	create table documents (
//	    id         uuid primary key,
//	    doc        jsonb not null,
//	    version    bigint not null,
//	    created_at timestamptz not null default now(),
//	    updated_at timestamptz not null default now()
//	);
//
// Save is a compare-and-swap on the version column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, id uuid.UUID, out any) (int64, error) {
	q := `select d.doc, d.version from documents d where d.id = $1::uuid`

	var (
		data    []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&data, &version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, errors.Wrapf(err, "failed to load document %s", id)
	}

	if err = json.Unmarshal(data, out); err != nil {
		return 0, errors.Wrapf(err, "failed to decode document %s", id)
	}

	return version, nil
}

func (s *PostgresStore) Save(ctx context.Context, id uuid.UUID, doc any, expectedVersion int64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %s", id)
	}

	q := `update documents set doc = $2::jsonb, version = version + 1, updated_at = now() where id = $1::uuid and version = $3`

	tag, err := s.pool.Exec(ctx, q, id, data, expectedVersion)
	if err != nil {
		return errors.Wrapf(err, "failed to save document %s", id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// no row matched, either the document is gone or the version moved
	q = `select 1 from documents d where d.id = $1::uuid`
	var one int32
	err = s.pool.QueryRow(ctx, q, id).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return errors.Wrapf(err, "failed to check document %s", id)
	}

	return ErrVersionMismatch
}

func (s *PostgresStore) Insert(ctx context.Context, id uuid.UUID, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %s", id)
	}

	q := `insert into documents (id, doc, version) values ($1::uuid, $2::jsonb, 1) on conflict (id) do nothing`

	tag, err := s.pool.Exec(ctx, q, id, data)
	if err != nil {
		return errors.Wrapf(err, "failed to insert document %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}

	return nil
}
