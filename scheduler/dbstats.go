package scheduler

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// DBPoolStatsTask is the task name the server registers DBPoolStats under.
const DBPoolStatsTask = "db_pool_stats"

// DBPoolStats returns a task that logs the connection pool counters of db.
func DBPoolStats(db *sql.DB, logger *zap.Logger) TaskFn {
	return func(ctx context.Context) {
		st := db.Stats()
		logger.Info("db pool stats",
			zap.Int("open", st.OpenConnections),
			zap.Int("in_use", st.InUse),
			zap.Int("idle", st.Idle),
			zap.Int64("wait_count", st.WaitCount),
			zap.Duration("wait_duration", st.WaitDuration),
			zap.Int64("max_idle_closed", st.MaxIdleClosed),
			zap.Int64("max_lifetime_closed", st.MaxLifetimeClosed),
		)
	}
}
