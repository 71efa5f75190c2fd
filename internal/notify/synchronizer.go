package notify

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"qrmenu-backend/internal/models"
	"qrmenu-backend/internal/sheets"
)

// Kasa paneli senkronizasyonu. Sheet'ten periyodik olarak sipariş ve hızlı
// istek listesi çekilir, panelde render edilen yerel listeyle birleştirilir.
// Kural: poll sadece yeni kayıt ekler ya da silineni düşürür; personelin
// bastığı durum geçişini asla poll sonucu ezmez. Sheet eventual-consistent
// davrandığı için aksi durumda panel durmadan geri atlar.

type Kind string

const (
	KindOrder   Kind = "order"
	KindRequest Kind = "quick_request"
)

type Notification struct {
	Kind        Kind               `json:"kind"`
	ID          string             `json:"id"`
	TableNumber int                `json:"tableNumber"`
	Status      models.OrderStatus `json:"status"`
	Items       []models.OrderItem `json:"items,omitempty"`
	Total       models.Money       `json:"total,omitempty"`
	Text        string             `json:"text,omitempty"`
	Timestamp   string             `json:"timestamp"`
}

// Alerter: yeni kayıt geldiğinde çalan zil. Testlerde sahte, üretimde log +
// panelin kendi sesi (ses tarayıcıda çalıyor, burada sadece işaretleniyor).
type Alerter interface {
	NewArrival(n Notification)
}

type LogAlerter struct{}

func (LogAlerter) NewArrival(n Notification) {
	log.Printf("yeni bildirim: %s masa %d (%s)", n.Kind, n.TableNumber, n.ID)
}

// Store: senkronizasyonun ihtiyaç duyduğu sheet işlemleri
type Store interface {
	FetchOrders(ctx context.Context) ([]models.Order, error)
	FetchQuickRequests(ctx context.Context) ([]models.QuickRequest, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	UpdateQuickRequestStatus(ctx context.Context, requestID string, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
	DeleteQuickRequest(ctx context.Context, requestID string) error
}

var (
	ErrUnknownNotification = errors.New("bildirim listede yok")
	ErrInvalidTransition   = errors.New("geçersiz durum geçişi")
)

type Synchronizer struct {
	store   Store
	alerter Alerter

	mu      sync.Mutex
	entries []Notification  // en yeni başta
	seen    map[string]bool // zil her id için en fazla bir kez çalar

	listening atomic.Bool
	inFlight  atomic.Bool   // poll reentrant değil
	fetchSeq  atomic.Uint64 // geciken cevap yeni durumu ezmesin
}

func NewSynchronizer(store Store, alerter Alerter) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		alerter: alerter,
		seen:    make(map[string]bool),
	}
	s.listening.Store(true)
	return s
}

// Run: sabit aralıklı poll döngüsü
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.listening.Load() {
				continue
			}
			if err := s.Poll(ctx); err != nil {
				log.Printf("[WARN] poll başarısız: %v", err)
			}
		}
	}
}

// Poll: bir senkronizasyon turu. Önceki tur hâlâ dönmediyse bu tur atlanır;
// iki reconcile üst üste binerse liste bozulur.
func (s *Synchronizer) Poll(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer s.inFlight.Store(false)

	seq := s.fetchSeq.Add(1)

	orders, ordersErr := s.store.FetchOrders(ctx)
	requests, requestsErr := s.store.FetchQuickRequests(ctx)

	// Bu arada daha yeni bir tur başladıysa eldeki cevap bayat, uygulama
	if seq != s.fetchSeq.Load() {
		return nil
	}

	// Fetch hatası boş küme demek değil: hatalı taraf reconcile edilmez,
	// yoksa panel bir ağ hıçkırığında komple boşalır
	s.reconcile(orders, ordersErr == nil, requests, requestsErr == nil)

	if ordersErr != nil {
		return ordersErr
	}
	return requestsErr
}

func (s *Synchronizer) reconcile(orders []models.Order, withOrders bool, requests []models.QuickRequest, withRequests bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remote := make(map[string]Notification)
	if withOrders {
		for _, o := range orders {
			if o.Status.IsTerminal() {
				continue // bitmiş sipariş panele düşmez
			}
			remote[o.OrderID] = Notification{
				Kind:        KindOrder,
				ID:          o.OrderID,
				TableNumber: o.TableNumber,
				Status:      models.NormalizeStatus(o.Status),
				Items:       o.Items,
				Total:       o.Total,
				Timestamp:   o.Timestamp,
			}
		}
	}
	if withRequests {
		for _, r := range requests {
			if r.Status.IsTerminal() {
				continue
			}
			remote[r.RequestID] = Notification{
				Kind:        KindRequest,
				ID:          r.RequestID,
				TableNumber: r.TableNumber,
				Status:      models.NormalizeStatus(r.Status),
				Text:        r.Request,
				Timestamp:   r.Timestamp,
			}
		}
	}

	var fresh []Notification
	var kept []Notification

	// Yerelde olanlar: uzakta hâlâ varsa YEREL durumla korunur (personelin
	// son bastığı kazanır), uzaktan silindiyse sessizce düşer
	for _, e := range s.entries {
		if _, ok := remote[e.ID]; ok {
			kept = append(kept, e)
			delete(remote, e.ID)
			continue
		}
		// Fetch edilemeyen taraf olduğu gibi kalır
		if (e.Kind == KindOrder && !withOrders) || (e.Kind == KindRequest && !withRequests) {
			kept = append(kept, e)
		}
	}

	// Kalanlar yeni gözlemlenen kayıtlar: başa eklenir, zil bir kez çalar
	for _, n := range remote {
		fresh = append(fresh, n)
	}
	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].Timestamp > fresh[j].Timestamp
	})

	for _, n := range fresh {
		if !s.seen[n.ID] {
			s.seen[n.ID] = true
			s.alerter.NewArrival(n)
		}
	}

	s.entries = append(fresh, kept...)
}

// Entries: panelin render ettiği liste, en yeni başta
func (s *Synchronizer) Entries() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

// Advance: personel durum ilerletti. Yerel liste anında güncellenir, sheet
// yazması arka planda best-effort gider; başarısızlık loglanır, geri alınmaz.
func (s *Synchronizer) Advance(id string, status models.OrderStatus) error {
	s.mu.Lock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownNotification
	}

	e := s.entries[idx]
	valid := false
	switch e.Kind {
	case KindOrder:
		valid = models.ValidStatusTransition(e.Status, status)
	case KindRequest:
		valid = models.ValidRequestTransition(e.Status, status)
	}
	if !valid {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	s.entries[idx].Status = status
	kind := e.Kind
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		if kind == KindOrder {
			err = s.store.UpdateOrderStatus(ctx, id, status)
		} else {
			err = s.store.UpdateQuickRequestStatus(ctx, id, status)
		}
		if err != nil {
			log.Printf("[WARN] durum sheet'e yazılamadı (%s -> %s), yerel durum korunuyor: %v", id, status, err)
		}
	}()

	return nil
}

// Dismiss: kayıt panelden anında düşer, sheet silmesi arka planda.
// Satır bulunamazsa (başka istemci çoktan silmiş) sessiz no-op.
func (s *Synchronizer) Dismiss(id string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownNotification
	}

	kind := s.entries[idx].Kind
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		if kind == KindOrder {
			err = s.store.DeleteOrder(ctx, id)
		} else {
			err = s.store.DeleteQuickRequest(ctx, id)
		}
		if err != nil {
			if errors.Is(err, sheets.ErrNotFound) {
				return
			}
			log.Printf("[WARN] kayıt sheet'ten silinemedi (%s): %v", id, err)
		}
	}()

	return nil
}

// ClearAll: sadece yerel listeyi boşaltır, sheet'e dokunmaz
func (s *Synchronizer) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *Synchronizer) Pause()  { s.listening.Store(false) }
func (s *Synchronizer) Resume() { s.listening.Store(true) }

func (s *Synchronizer) Listening() bool { return s.listening.Load() }
