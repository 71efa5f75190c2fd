package ordering

import (
	"context"
	"log"
	"sync"
	"time"

	"qrmenu-backend/internal/models"
)

// CatalogCache: misafir uçları her istekte sheet'e gitmesin diye menünün
// kısa ömürlü kopyası. Sheet erişilemezse eldeki bayat kopya servis edilir,
// o da yoksa boş liste döner (menü sayfası çökmek yerine boş görünür).
type CatalogCache struct {
	store Store
	ttl   time.Duration

	mu        sync.Mutex
	items     []models.MenuItem
	fetchedAt time.Time
}

func NewCatalogCache(store Store, ttl time.Duration) *CatalogCache {
	return &CatalogCache{store: store, ttl: ttl}
}

func (c *CatalogCache) Items(ctx context.Context) []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetchedAt) < c.ttl && c.items != nil {
		return c.items
	}

	items, err := c.store.FetchMenu(ctx)
	if err != nil {
		log.Printf("[WARN] menü çekilemedi, eldeki kopya kullanılıyor: %v", err)
		if c.items == nil {
			return []models.MenuItem{}
		}
		return c.items
	}

	c.items = items
	c.fetchedAt = time.Now()
	return c.items
}

// Find: id ile menü kaydı
func (c *CatalogCache) Find(ctx context.Context, itemID string) (models.MenuItem, bool) {
	for _, it := range c.Items(ctx) {
		if it.ID == itemID {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// Invalidate: admin menüyü değiştirdiğinde çağrılır
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}
