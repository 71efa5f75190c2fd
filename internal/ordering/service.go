package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qrmenu-backend/internal/cart"
	"qrmenu-backend/internal/models"
	"qrmenu-backend/internal/notify"
	"qrmenu-backend/internal/session"

	"github.com/google/uuid"
)

// Store: sipariş akışının sheet üzerindeki işlemleri
type Store interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
	AddOrder(ctx context.Context, o models.Order) error
	AddQuickRequest(ctx context.Context, r models.QuickRequest) error
}

type Service struct {
	store    Store
	sessions *session.Store
	carts    *cart.Registry
	bus      *notify.Bus
}

func NewService(store Store, sessions *session.Store, carts *cart.Registry, bus *notify.Bus) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		carts:    carts,
		bus:      bus,
	}
}

// PlaceOrder: önce doğrulama, sonra sheet yazması, en son yerel temizlik.
// Sıra önemli: sheet onaylamadan sepet silinmez, sepet silindiyse sipariş
// kesin kabul edilmiştir. Panele sinyal en sonda ve best-effort gider;
// sinyal kaybolursa sipariş yine geçerlidir, panel poll'da yakalar.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, notes string) (models.Order, error) {
	table, ok := s.sessions.Table(sessionID)
	if !ok {
		return models.Order{}, ErrTableRequired
	}

	c := s.carts.Get(sessionID)
	lines := c.Lines()
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total models.Money
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
			Size:     l.Size,
		})
		total += l.Price * models.Money(l.Quantity)
	}

	order := models.Order{
		OrderID:     uuid.NewString(),
		TableNumber: table,
		Items:       items,
		Total:       total,
		Status:      models.StatusPending,
		Timestamp:   time.Now().Format(time.RFC3339),
		Notes:       strings.TrimSpace(notes),
	}

	if err := s.store.AddOrder(ctx, order); err != nil {
		// Sepete dokunma: kullanıcı aynı sepetle tekrar dener
		return models.Order{}, fmt.Errorf("sipariş kaydedilemedi: %w", err)
	}

	c.Clear()
	s.bus.Publish(notify.EventNewOrder, order)

	return order, nil
}

// SendQuickRequest: siparişle aynı kalıp, sepet ve toplam yok
func (s *Service) SendQuickRequest(ctx context.Context, sessionID, text string) (models.QuickRequest, error) {
	table, ok := s.sessions.Table(sessionID)
	if !ok {
		return models.QuickRequest{}, ErrTableRequired
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.QuickRequest{}, ErrEmptyRequest
	}

	req := models.QuickRequest{
		RequestID:   uuid.NewString(),
		TableNumber: table,
		Request:     text,
		Timestamp:   time.Now().Format(time.RFC3339),
		Status:      models.StatusPending,
	}

	if err := s.store.AddQuickRequest(ctx, req); err != nil {
		return models.QuickRequest{}, fmt.Errorf("hızlı istek kaydedilemedi: %w", err)
	}

	s.bus.Publish(notify.EventQuickRequest, req)

	return req, nil
}
