package infrastructure

import (
	"sync"
	"time"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

const maxStoredAlerts = 50

// SnapshotStore keeps the latest dashboard metrics and a bounded list of
// recent alerts, serving the per-connection pushes issued at admission and on
// demand. It is refreshed as a side effect of the dashboard and alert
// emitters.
type SnapshotStore struct {
	mu      sync.RWMutex
	metrics domain.DashboardMetrics
	alerts  []domain.Alert
}

// NewSnapshotStore seeds the store so a connection admitted before any
// domain event has arrived still receives a plausible snapshot.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		metrics: domain.DashboardMetrics{
			TotalProducts: 1250,
			LowStockItems: 23,
			TotalValue:    125000,
			ActiveAlerts:  5,
			Revenue: domain.RevenueMetrics{
				Current:  45000,
				Previous: 42000,
				Trend:    7.1,
			},
			LastUpdated: time.Now().UTC(),
		},
	}
}

func (s *SnapshotStore) DashboardMetrics() domain.DashboardMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

func (s *SnapshotStore) SetDashboardMetrics(m domain.DashboardMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.LastUpdated.IsZero() {
		m.LastUpdated = time.Now().UTC()
	}
	s.metrics = m
}

// CurrentAlerts returns the stored alerts newest first.
func (s *SnapshotStore) CurrentAlerts() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// RecordAlert prepends an alert, trimming the list to its bound.
func (s *SnapshotStore) RecordAlert(a domain.Alert) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append([]domain.Alert{a}, s.alerts...)
	if len(s.alerts) > maxStoredAlerts {
		s.alerts = s.alerts[:maxStoredAlerts]
	}
}
