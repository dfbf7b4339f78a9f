package database

import (
	"context"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// LogPgxPoolStatistics dumps the connection pool counters, used when
// debugging pool exhaustion.
func LogPgxPoolStatistics(ctx context.Context, msg string) {
	db, ok := ctx.Value(glContext.Database).(*pgxpool.Pool)
	if !ok || db == nil {
		return
	}

	stat := db.Stat()
	logrus.WithFields(logrus.Fields{
		"acquireCount":            stat.AcquireCount(),
		"acquireDuration":         stat.AcquireDuration(),
		"acquiredConns":           stat.AcquiredConns(),
		"canceledAcquireCount":    stat.CanceledAcquireCount(),
		"constructingConns":       stat.ConstructingConns(),
		"emptyAcquireCount":       stat.EmptyAcquireCount(),
		"idleConns":               stat.IdleConns(),
		"maxConns":                stat.MaxConns(),
		"totalConns":              stat.TotalConns(),
		"newConnsCount":           stat.NewConnsCount(),
		"maxIdleDestroyCount":     stat.MaxIdleDestroyCount(),
		"maxLifetimeDestroyCount": stat.MaxLifetimeDestroyCount(),
	}).Debugf("pgxstat (%s)", msg)
}
