// Package platform wires the library's collaborators into a context from
// the environment, services and tests share these builders.
package platform

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"dev.modforge.gg/platform/modforge-shared/model"
	"dev.modforge.gg/platform/modforge-shared/store"
)

// NewDatabaseContext connects the pgx pool from DATABASE_* environment
// variables and stores it in the context.
func NewDatabaseContext(ctx context.Context) (context.Context, error) {
	host := os.Getenv("DATABASE_HOST")
	port := os.Getenv("DATABASE_PORT")
	user := os.Getenv("DATABASE_USER")
	pass := os.Getenv("DATABASE_PASS")
	name := os.Getenv("DATABASE_NAME")
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	ctx = context.WithValue(ctx, glContext.Database, pool)

	return ctx, nil
}

// NewClickhouseContext connects the analytics sink from CLICKHOUSE_*
// environment variables and stores it in the context.
func NewClickhouseContext(ctx context.Context) (context.Context, error) {
	clickhouseHost := os.Getenv("CLICKHOUSE_HOST")
	clickhousePort := os.Getenv("CLICKHOUSE_PORT")
	clickhouseUser := os.Getenv("CLICKHOUSE_USER")
	clickhousePass := os.Getenv("CLICKHOUSE_PASS")
	clickhouseName := os.Getenv("CLICKHOUSE_NAME")
	clickhousePortNum, err := strconv.Atoi(clickhousePort)
	if err != nil {
		return ctx, fmt.Errorf("failed to convert clickhouse port to int: %w", err)
	}
	dsn := fmt.Sprintf("clickhouse://%s:%s@%s:%d/%s", clickhouseUser, clickhousePass, clickhouseHost, clickhousePortNum, clickhouseName)
	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil || conn == nil {
		return ctx, fmt.Errorf("failed to connect to clickhouse")
	}

	err = conn.Ping(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	ctx = context.WithValue(ctx, glContext.Clickhouse, conn)

	return ctx, nil
}

// NewStoreContext wraps the pool already present in the context into a
// Postgres document store and stores it under the store key.
func NewStoreContext(ctx context.Context) (context.Context, error) {
	pool, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || pool == nil {
		return ctx, model.ErrNoDatabase
	}

	ctx = context.WithValue(ctx, glContext.Store, store.Store(store.NewPostgresStore(pool)))

	return ctx, nil
}

// NewCourseStructureContext stores the database-backed course structure
// lookup in the context.
func NewCourseStructureContext(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(glContext.Database).(*pgxpool.Pool); !ok {
		return ctx, model.ErrNoDatabase
	}

	ctx = context.WithValue(ctx, glContext.CourseStructure, model.CourseStructure(model.DatabaseCourseStructure{}))

	return ctx, nil
}
