package cart

import (
	"sync"

	"qrmenu-backend/internal/models"
)

// Sepet tamamen istemci-yerel durum: sheet'e hiç yazılmaz, sipariş
// gönderilene kadar sadece bu süreçte yaşar.

type Line struct {
	ItemID   string       `json:"id"`
	Name     string       `json:"name"`
	Size     string       `json:"size"`
	Price    models.Money `json:"price"` // sepete eklenme anındaki birim fiyat, sonradan yeniden hesaplanmaz
	Quantity int          `json:"quantity"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddLine: aynı (ürün, boy) çifti varsa adet artar, yoksa yeni satır.
// Boy verilmemişse ürünün ilk boy kademesi, kademe yoksa "Regular" kullanılır.
func (c *Cart) AddLine(item models.MenuItem, size string) {
	if size == "" {
		if tiers := item.SizeTiers(); len(tiers) > 0 {
			size = tiers[0].Label
		} else {
			size = "Regular"
		}
	}
	price := item.PriceFor(size)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID && c.lines[i].Size == size {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:   item.ID,
		Name:     item.Name,
		Size:     size,
		Price:    price,
		Quantity: 1,
	})
}

// RemoveLine: satırı komple siler, adet azaltma yok. Olmayan satır sessizce geçilir.
func (c *Cart) RemoveLine(itemID, size string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		if !(l.ItemID == itemID && l.Size == size) {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

// Total: her okuyuşta baştan toplanır, cache yok
func (c *Cart) Total() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total models.Money
	for _, l := range c.lines {
		total += l.Price * models.Money(l.Quantity)
	}
	return total
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
