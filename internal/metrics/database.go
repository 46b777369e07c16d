package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats publishes connection pool stats. The wait counters only
// grow by the delta since the previous sample.
func (m *Metrics) UpdateDBStats(v interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := v.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.statsMu.Lock()
		prev := m.lastStats
		m.lastStats = stats
		m.statsMu.Unlock()

		if d := stats.WaitCount - prev.WaitCount; d > 0 {
			m.DBConnectionWaitTotal.Add(float64(d))
		}
		if d := stats.WaitDuration - prev.WaitDuration; d > 0 {
			m.DBConnectionWaitDuration.Add(d.Seconds())
		}
	})
}

// RecordDBQuery records one database statement
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
