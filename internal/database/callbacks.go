package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "workflow:started_at"

// SlowQueryThreshold is the duration above which a statement is logged at warn level
var SlowQueryThreshold = 200 * time.Millisecond

// MetricsRecorder records database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks times every select, insert, update and delete
// statement and hands the result to recorder. A nil logger disables slow
// statement logging.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			elapsed := time.Since(v.(time.Time))
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			err := tx.Error
			if errors.Is(err, gorm.ErrRecordNotFound) && operation != "select" {
				err = nil
			}
			recorder.RecordDBQuery(operation, table, elapsed, err)
			if elapsed > SlowQueryThreshold {
				logger.Warn("Slow database statement",
					zap.String("operation", operation),
					zap.String("table", table),
					zap.Duration("duration", elapsed),
				)
			}
		}
	}

	cb := db.Callback()
	return errors.Join(
		cb.Query().Before("gorm:query").Register("metrics:select_start", start),
		cb.Query().After("gorm:query").Register("metrics:select_finish", finish("select")),
		cb.Create().Before("gorm:create").Register("metrics:insert_start", start),
		cb.Create().After("gorm:create").Register("metrics:insert_finish", finish("insert")),
		cb.Update().Before("gorm:update").Register("metrics:update_start", start),
		cb.Update().After("gorm:update").Register("metrics:update_finish", finish("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete_start", start),
		cb.Delete().After("gorm:delete").Register("metrics:delete_finish", finish("delete")),
	)
}

// StartDBStatsCollector publishes connection pool stats every interval until done is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if sqlDB, err := db.DB(); err == nil {
					recorder.UpdateDBStats(sqlDB.Stats())
				}
			}
		}
	}()
	return done
}
