package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies an alert. The set is closed; legacy producer values
// (low, medium, high) are folded into it by NormalizeSeverity.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
)

// NormalizeSeverity maps any producer-supplied severity value onto the closed
// set, defaulting to info for unknown values.
func NormalizeSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warning", "warn", "medium":
		return SeverityWarning
	case "critical", "high":
		return SeverityCritical
	case "error", "err":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Urgent reports whether an alert of this severity must also be pushed to the
// global channel.
func (s Severity) Urgent() bool {
	return s == SeverityCritical || s == SeverityError
}

// Alert is a business alert, either domain-originated or synthesized by the
// stock-change emitter.
type Alert struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ProductID string    `json:"productId,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// NewLowStockAlert builds the alert synthesized when a stock change breaches
// the minimum threshold.
func NewLowStockAlert(productID, productName string, stock, minStock int) Alert {
	return Alert{
		ID:        fmt.Sprintf("low-stock-%s-%d", productID, time.Now().UnixMilli()),
		Severity:  SeverityWarning,
		Title:     "Low Stock Alert",
		Message:   fmt.Sprintf("%s is running low on stock (%d remaining, minimum: %d)", productName, stock, minStock),
		ProductID: productID,
	}
}
