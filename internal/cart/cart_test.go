package cart

import (
	"testing"

	"qrmenu-backend/internal/models"
)

func testItem() models.MenuItem {
	return models.MenuItem{
		ID:        "1_1",
		Category:  "Hot Drinks",
		Name:      "Türk Kahvesi",
		Price:     3.00,
		Sizes:     `{"Small":"4.50","Medium":"5.50","Large":"7.00"}`,
		Available: true,
	}
}

func TestAddLineAggregatesSamePair(t *testing.T) {
	c := New()
	item := testItem()

	for i := 0; i < 3; i++ {
		c.AddLine(item, "Small")
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", lines[0].Quantity)
	}
	if lines[0].Price != 4.50 {
		t.Errorf("price = %v, want 4.50", lines[0].Price)
	}
}

func TestAddLineDifferentSizesSeparateLines(t *testing.T) {
	c := New()
	item := testItem()

	c.AddLine(item, "Small")
	c.AddLine(item, "Large")

	if len(c.Lines()) != 2 {
		t.Fatalf("lines = %d, want 2", len(c.Lines()))
	}
	if got := c.Total(); got != 4.50+7.00 {
		t.Errorf("total = %v, want %v", got, 4.50+7.00)
	}
}

func TestAddLineDefaultSize(t *testing.T) {
	c := New()

	// Boy verilmezse ilk kademe seçilir
	c.AddLine(testItem(), "")
	lines := c.Lines()
	if lines[0].Size != "Small" || lines[0].Price != 4.50 {
		t.Errorf("line = %+v, want Small/4.50", lines[0])
	}

	// Kademesi olmayan ürün Regular + baz fiyat
	plain := models.MenuItem{ID: "2_1", Name: "Su", Price: 1.00, Available: true}
	c.AddLine(plain, "")
	lines = c.Lines()
	if lines[1].Size != "Regular" || lines[1].Price != 1.00 {
		t.Errorf("line = %+v, want Regular/1.00", lines[1])
	}
}

func TestUnknownSizeFallsBackToBasePrice(t *testing.T) {
	c := New()
	c.AddLine(testItem(), "XL")

	lines := c.Lines()
	if lines[0].Price != 3.00 {
		t.Errorf("price = %v, want base 3.00", lines[0].Price)
	}
}

func TestRemoveLineDeletesWholePair(t *testing.T) {
	c := New()
	item := testItem()

	c.AddLine(item, "Small")
	c.AddLine(item, "Small")
	c.AddLine(item, "Large")

	c.RemoveLine(item.ID, "Small")

	lines := c.Lines()
	if len(lines) != 1 || lines[0].Size != "Large" {
		t.Fatalf("lines = %+v, want sadece Large", lines)
	}
	if got := c.Total(); got != 7.00 {
		t.Errorf("total = %v, want 7.00", got)
	}

	// Olmayan satır no-op
	c.RemoveLine("yok", "Small")
	if len(c.Lines()) != 1 {
		t.Errorf("no-op remove satır düşürdü")
	}
}

func TestTotalRecomputedOverMutations(t *testing.T) {
	c := New()
	item := testItem()

	if c.Total() != 0 {
		t.Errorf("boş sepet total = %v, want 0", c.Total())
	}

	c.AddLine(item, "Small")  // 4.50
	c.AddLine(item, "Small")  // 9.00
	c.AddLine(item, "Medium") // 14.50
	if got := c.Total(); got != 14.50 {
		t.Errorf("total = %v, want 14.50", got)
	}

	c.RemoveLine(item.ID, "Medium")
	if got := c.Total(); got != 9.00 {
		t.Errorf("total = %v, want 9.00", got)
	}

	c.Clear()
	if c.Total() != 0 || !c.IsEmpty() {
		t.Errorf("clear sonrası sepet boş değil")
	}
}

func TestItemCount(t *testing.T) {
	c := New()
	item := testItem()

	c.AddLine(item, "Small")
	c.AddLine(item, "Small")
	c.AddLine(item, "Large")

	if got := c.ItemCount(); got != 3 {
		t.Errorf("ItemCount = %d, want 3", got)
	}
}

func TestRegistryPerSession(t *testing.T) {
	r := NewRegistry()

	a := r.Get("oturum-a")
	b := r.Get("oturum-b")
	if a == b {
		t.Fatal("farklı oturumlar aynı sepeti paylaşıyor")
	}

	a.AddLine(testItem(), "Small")
	if !b.IsEmpty() {
		t.Error("b sepeti a'nın satırını görüyor")
	}
	if r.Get("oturum-a") != a {
		t.Error("aynı oturum ikinci çağrıda farklı sepet aldı")
	}
}
