package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"qrmenu-backend/internal/models"

	"github.com/google/uuid"
)

// Menü editörü. Admin panelinin düzenlemeleri önce yerel kopyaya işlenir,
// sheet yazması arkadan best-effort gider: panel beklemeden akar, sheet
// geride kalırsa log düşer. Tek mekan, tek admin; lost update riski kabul.

var (
	ErrItemNotFound = errors.New("ürün katalogda yok")
	ErrDuplicateID  = errors.New("bu id ile ürün zaten var")
	ErrInvalidItem  = errors.New("ürün bilgileri eksik")
)

// Store: editörün sheet işlemleri
type Store interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
	AddMenuItem(ctx context.Context, item models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, itemID string) error
}

type CatalogEditor struct {
	store Store

	mu     sync.Mutex
	items  []models.MenuItem
	loaded bool
}

func NewCatalogEditor(store Store) *CatalogEditor {
	return &CatalogEditor{store: store}
}

// Refresh: yerel kopyayı sheet'ten baştan kurar
func (e *CatalogEditor) Refresh(ctx context.Context) error {
	items, err := e.store.FetchMenu(ctx)
	if err != nil {
		return fmt.Errorf("menü çekilemedi: %w", err)
	}

	e.mu.Lock()
	e.items = items
	e.loaded = true
	e.mu.Unlock()
	return nil
}

func (e *CatalogEditor) Items(ctx context.Context) []models.MenuItem {
	e.mu.Lock()
	loaded := e.loaded
	e.mu.Unlock()

	if !loaded {
		if err := e.Refresh(ctx); err != nil {
			log.Printf("[WARN] katalog ilk yükleme başarısız: %v", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.MenuItem, len(e.items))
	copy(out, e.items)
	return out
}

func validateItem(item models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Category) == "" {
		return ErrInvalidItem
	}
	if item.Price < 0 {
		return ErrInvalidItem
	}
	return nil
}

// Create: id verilmemişse üretilir, id katalog içinde benzersiz kalmak zorunda
func (e *CatalogEditor) Create(item models.MenuItem) (models.MenuItem, error) {
	if err := validateItem(item); err != nil {
		return models.MenuItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	e.mu.Lock()
	for _, existing := range e.items {
		if existing.ID == item.ID {
			e.mu.Unlock()
			return models.MenuItem{}, ErrDuplicateID
		}
	}
	e.items = append(e.items, item)
	e.mu.Unlock()

	e.persistAsync("addMenuItem", func(ctx context.Context) error {
		return e.store.AddMenuItem(ctx, item)
	})
	return item, nil
}

func (e *CatalogEditor) Update(item models.MenuItem) (models.MenuItem, error) {
	if err := validateItem(item); err != nil {
		return models.MenuItem{}, err
	}

	e.mu.Lock()
	idx := -1
	for i := range e.items {
		if e.items[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return models.MenuItem{}, ErrItemNotFound
	}
	e.items[idx] = item
	e.mu.Unlock()

	e.persistAsync("updateMenuItem", func(ctx context.Context) error {
		return e.store.UpdateMenuItem(ctx, item)
	})
	return item, nil
}

func (e *CatalogEditor) Delete(itemID string) error {
	e.mu.Lock()
	idx := -1
	for i := range e.items {
		if e.items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return ErrItemNotFound
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.mu.Unlock()

	e.persistAsync("deleteMenuItem", func(ctx context.Context) error {
		return e.store.DeleteMenuItem(ctx, itemID)
	})
	return nil
}

func (e *CatalogEditor) ToggleAvailability(itemID string) (models.MenuItem, error) {
	e.mu.Lock()
	idx := -1
	for i := range e.items {
		if e.items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return models.MenuItem{}, ErrItemNotFound
	}
	e.items[idx].Available = !e.items[idx].Available
	item := e.items[idx]
	e.mu.Unlock()

	e.persistAsync("updateMenuItem", func(ctx context.Context) error {
		return e.store.UpdateMenuItem(ctx, item)
	})
	return item, nil
}

// Upsert: xlsx import için, id varsa günceller yoksa ekler.
// Import toplu iş olduğu için sheet yazması senkron yapılır; admin bekler,
// kaç satırın geçtiğini görmek ister.
func (e *CatalogEditor) Upsert(ctx context.Context, item models.MenuItem) (created bool, err error) {
	if err := validateItem(item); err != nil {
		return false, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	e.mu.Lock()
	idx := -1
	for i := range e.items {
		if e.items[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		e.items[idx] = item
	} else {
		e.items = append(e.items, item)
	}
	e.mu.Unlock()

	if idx >= 0 {
		return false, e.store.UpdateMenuItem(ctx, item)
	}
	return true, e.store.AddMenuItem(ctx, item)
}

func (e *CatalogEditor) persistAsync(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			// Yerel kopya ile sheet ayrıştı; admin "senkronize et" ile toparlar
			log.Printf("[WARN] %s sheet'e yazılamadı, yerel kopya sheet'ten ileride: %v", op, err)
		}
	}()
}
