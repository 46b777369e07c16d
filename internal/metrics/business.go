package metrics

// Transition outcomes
const (
	TransitionApplied  = "applied"
	TransitionRejected = "rejected"
	TransitionInvalid  = "invalid"
)

// IncrementIssueCreated counts a created issue
func (m *Metrics) IncrementIssueCreated() {
	m.safeExecute("IncrementIssueCreated", func() {
		m.IssuesCreatedTotal.Inc()
	})
}

// RecordTransition counts a state change attempt by outcome
func (m *Metrics) RecordTransition(result string) {
	m.safeExecute("RecordTransition", func() {
		m.TransitionsTotal.WithLabelValues(result).Inc()
	})
}

// RecordValidationFailure counts one rejected field value
func (m *Metrics) RecordValidationFailure(code string) {
	m.safeExecute("RecordValidationFailure", func() {
		m.ValidationFailuresTotal.WithLabelValues(code).Inc()
	})
}

// RecordCacheLookup counts a snapshot cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	m.safeExecute("RecordCacheLookup", func() {
		result := "miss"
		if hit {
			result = "hit"
		}
		m.SnapshotCacheTotal.WithLabelValues(result).Inc()
	})
}

// SetTemplateCounts refreshes the template gauges
func (m *Metrics) SetTemplateCounts(total, locked int64) {
	m.safeExecute("SetTemplateCounts", func() {
		m.TemplatesTotal.Set(float64(total))
		m.LockedTemplatesTotal.Set(float64(locked))
	})
}

// SetIssuesTotal refreshes the issue gauge
func (m *Metrics) SetIssuesTotal(count int64) {
	m.safeExecute("SetIssuesTotal", func() {
		m.IssuesTotal.Set(float64(count))
	})
}
