package domain

import "time"

// RevenueMetrics is the revenue slice of the dashboard snapshot.
type RevenueMetrics struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Trend    float64 `json:"trend"`
}

// DashboardMetrics is the snapshot pushed on admission, on demand and on
// every metrics.updated broadcast.
type DashboardMetrics struct {
	TotalProducts int            `json:"totalProducts"`
	LowStockItems int            `json:"lowStockItems"`
	TotalValue    float64        `json:"totalValue"`
	ActiveAlerts  int            `json:"activeAlerts"`
	Revenue       RevenueMetrics `json:"revenue"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}
