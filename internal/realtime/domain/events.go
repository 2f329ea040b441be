package domain

// Dot-namespaced message types carried in Envelope.Type.
const (
	TypeProductUpdated     = "product.updated"
	TypeProductDeleted     = "product.deleted"
	TypeStockChanged       = "product.stock_changed"
	TypeMetricsUpdated     = "metrics.updated"
	TypeAlertCreated       = "alert.created"
	TypeAlertUpdated       = "alert.updated"
	TypeAlertsCurrent      = "alerts.current"
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeRecommendationNew  = "recommendation.new"
	TypeSystemMaintenance  = "system.maintenance"
	TypeUrgentAlert        = "urgent.alert"
)

// ProductUpdate is the payload of a product.updated broadcast.
type ProductUpdate struct {
	ProductID string `json:"productId"`
	Data      any    `json:"data"`
}

// ProductDeletion is the payload of a product.deleted broadcast.
type ProductDeletion struct {
	ProductID string `json:"productId"`
}

// StockChange is the payload of a product.stock_changed broadcast.
type StockChange struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"minStock"`
	IsLowStock  bool   `json:"isLowStock"`
}

// OrderStatusChange is the payload of an order.status_changed broadcast.
type OrderStatusChange struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}
