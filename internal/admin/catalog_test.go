package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"qrmenu-backend/internal/models"
)

// persistAsync goroutine'de çalıştığı için fake mutex'li ve kanal sinyalli

type fakeCatalogStore struct {
	mu       sync.Mutex
	menu     []models.MenuItem
	fetchErr error

	writes chan string // "add:<id>", "update:<id>", "delete:<id>"
}

func newFakeCatalogStore(menu ...models.MenuItem) *fakeCatalogStore {
	return &fakeCatalogStore{
		menu:   menu,
		writes: make(chan string, 8),
	}
}

func (f *fakeCatalogStore) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.MenuItem, len(f.menu))
	copy(out, f.menu)
	return out, nil
}

func (f *fakeCatalogStore) AddMenuItem(ctx context.Context, item models.MenuItem) error {
	f.writes <- "add:" + item.ID
	return nil
}

func (f *fakeCatalogStore) UpdateMenuItem(ctx context.Context, item models.MenuItem) error {
	f.writes <- "update:" + item.ID
	return nil
}

func (f *fakeCatalogStore) DeleteMenuItem(ctx context.Context, itemID string) error {
	f.writes <- "delete:" + itemID
	return nil
}

func waitWrite(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("sheet yazması = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sheet yazması gelmedi: %q bekleniyordu", want)
	}
}

func TestCatalogLazyFirstLoad(t *testing.T) {
	store := newFakeCatalogStore(
		models.MenuItem{ID: "1", Category: "İçecek", Name: "Çay", Price: 3, Available: true},
	)
	editor := NewCatalogEditor(store)

	items := editor.Items(context.Background())
	if len(items) != 1 || items[0].Name != "Çay" {
		t.Errorf("items = %+v", items)
	}
}

func TestCatalogCreate(t *testing.T) {
	store := newFakeCatalogStore()
	editor := NewCatalogEditor(store)

	created, err := editor.Create(models.MenuItem{Category: "İçecek", Name: "Ayran", Price: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("boş id için yeni id üretilmeliydi")
	}
	waitWrite(t, store.writes, "add:"+created.ID)

	// Aynı id ikinci kez reddedilir
	if _, err := editor.Create(created); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

func TestCatalogCreateValidation(t *testing.T) {
	editor := NewCatalogEditor(newFakeCatalogStore())

	tests := []struct {
		name string
		item models.MenuItem
	}{
		{"isim yok", models.MenuItem{Category: "İçecek", Price: 5}},
		{"kategori yok", models.MenuItem{Name: "Ayran", Price: 5}},
		{"negatif fiyat", models.MenuItem{Category: "İçecek", Name: "Ayran", Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := editor.Create(tt.item); !errors.Is(err, ErrInvalidItem) {
				t.Errorf("err = %v, want ErrInvalidItem", err)
			}
		})
	}
}

func TestCatalogUpdateNotFound(t *testing.T) {
	editor := NewCatalogEditor(newFakeCatalogStore())

	_, err := editor.Update(models.MenuItem{ID: "yok", Category: "İçecek", Name: "Çay", Price: 3})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestCatalogDelete(t *testing.T) {
	store := newFakeCatalogStore()
	editor := NewCatalogEditor(store)

	item, err := editor.Create(models.MenuItem{Category: "İçecek", Name: "Çay", Price: 3})
	if err != nil {
		t.Fatal(err)
	}
	waitWrite(t, store.writes, "add:"+item.ID)

	if err := editor.Delete(item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	waitWrite(t, store.writes, "delete:"+item.ID)

	if err := editor.Delete(item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("ikinci silme: err = %v, want ErrItemNotFound", err)
	}
}

func TestCatalogToggleAvailability(t *testing.T) {
	store := newFakeCatalogStore()
	editor := NewCatalogEditor(store)

	item, err := editor.Create(models.MenuItem{Category: "İçecek", Name: "Çay", Price: 3, Available: true})
	if err != nil {
		t.Fatal(err)
	}
	waitWrite(t, store.writes, "add:"+item.ID)

	toggled, err := editor.ToggleAvailability(item.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if toggled.Available {
		t.Error("available false olmalıydı")
	}
	waitWrite(t, store.writes, "update:"+item.ID)

	if _, err := editor.ToggleAvailability("yok"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestCatalogUpsert(t *testing.T) {
	store := newFakeCatalogStore()
	editor := NewCatalogEditor(store)
	if err := editor.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Yeni kayıt: created=true, sheet yazması senkron
	created, err := editor.Upsert(context.Background(), models.MenuItem{ID: "k1", Category: "Kebap", Name: "Adana", Price: 120})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	waitWrite(t, store.writes, "add:k1")

	// Aynı id: güncelleme
	created, err = editor.Upsert(context.Background(), models.MenuItem{ID: "k1", Category: "Kebap", Name: "Adana Acılı", Price: 130})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created {
		t.Error("created = true, want false")
	}
	waitWrite(t, store.writes, "update:k1")

	items := editor.Items(context.Background())
	if len(items) != 1 || items[0].Name != "Adana Acılı" {
		t.Errorf("items = %+v", items)
	}
}
