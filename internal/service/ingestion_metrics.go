package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one snapshot refresh
type IngestionMetrics struct {
	mu             sync.RWMutex
	StartTime      time.Time
	Duration       time.Duration
	TeamsRequested int
	TeamsFetched   int
	Records        int
	Duplicates     int
	Errors         int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TeamsRequested = 0
	m.TeamsFetched = 0
	m.Records = 0
	m.Duplicates = 0
	m.Errors = 0
}

// RecordTeam counts a fetched team and how many of its records were new
func (m *IngestionMetrics) RecordTeam(fetched, added int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamsFetched++
	m.Records += added
	m.Duplicates += fetched - added
}

// SetRequested records how many teams the refresh will ask for
func (m *IngestionMetrics) SetRequested(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamsRequested = n
}

// Finish stamps the elapsed time since Reset
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// IngestionReport is a point-in-time copy of IngestionMetrics
type IngestionReport struct {
	StartTime      time.Time
	Duration       time.Duration
	TeamsRequested int
	TeamsFetched   int
	Records        int
	Duplicates     int
	Errors         int
}

// Report returns a copy safe to read without locking
func (m *IngestionMetrics) Report() IngestionReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return IngestionReport{
		StartTime:      m.StartTime,
		Duration:       m.Duration,
		TeamsRequested: m.TeamsRequested,
		TeamsFetched:   m.TeamsFetched,
		Records:        m.Records,
		Duplicates:     m.Duplicates,
		Errors:         m.Errors,
	}
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	return m.Report().String()
}

func (m IngestionReport) String() string {
	successRate := float64(0)
	if m.TeamsRequested > 0 {
		successRate = float64(m.TeamsFetched) / float64(m.TeamsRequested) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Teams=%d, Fetched=%d (%.1f%%), Records=%d, Duplicates=%d, Errors=%d, Duration=%v}",
		m.TeamsRequested,
		m.TeamsFetched,
		successRate,
		m.Records,
		m.Duplicates,
		m.Errors,
		m.Duration,
	)
}
