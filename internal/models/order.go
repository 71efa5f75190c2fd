package models

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusDismissed  OrderStatus = "dismissed"
)

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Money  `json:"price"`
	Size     string `json:"size,omitempty"`
}

type Order struct {
	OrderID     string      `json:"orderId"`
	TableNumber int         `json:"tableNumber"`
	Items       []OrderItem `json:"items"`
	Total       Money       `json:"total"`
	Status      OrderStatus `json:"status"`
	Timestamp   string      `json:"timestamp"` // RFC3339
	Notes       string      `json:"customerNotes"` // sheet sütun adı, eski istemcilerle ortak
}

func (o Order) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, o.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Geçerli durum geçişleri. Personel pending'den direkt ready'ye de
// atlayabiliyor (mutfak sipariş küçükse işleme adımını es geçiyor).
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusReady, StatusDismissed},
	StatusProcessing: {StatusReady, StatusCompleted, StatusDismissed},
	StatusReady:      {StatusCompleted, StatusDismissed},
}

// Sheet tarafı eski kayıtlarda status'u boş ya da "new" bırakabiliyor;
// durum karşılaştırmasından önce pending'e çekilir
func NormalizeStatus(st OrderStatus) OrderStatus {
	if st == "" || st == "new" {
		return StatusPending
	}
	return st
}

func ValidStatusTransition(from, to OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal: completed ve dismissed sonrası geçiş yok
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDismissed
}
