package models

// QuickRequest: sipariş dışı servis çağrısı (su, hesap, peçete vs.)
type QuickRequest struct {
	RequestID   string      `json:"requestId"`
	TableNumber int         `json:"tableNumber"`
	Request     string      `json:"request"`
	Timestamp   string      `json:"timestamp"` // RFC3339
	Status      OrderStatus `json:"status"`
}

// Hızlı isteklerde ara adım yok: pending -> completed ya da dismissed
func ValidRequestTransition(from, to OrderStatus) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusCompleted || to == StatusDismissed
}
