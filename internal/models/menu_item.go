package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money: sheet tarafı fiyatları bazen sayı bazen "4.50" gibi string döndürüyor,
// iki formatı da kabul et
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*m = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("geçersiz fiyat değeri: %s", s)
	}
	*m = Money(v)
	return nil
}

type MenuItem struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Price       Money  `json:"price"`
	Sizes       string `json:"sizes"` // Sheet'te JSON string olarak tutuluyor: {"Small":"4.50",...}
	Image       string `json:"image"`
	Available   bool   `json:"available"`
}

type SizeTier struct {
	Label string
	Price Money
}

// SizeTiers: sizes alanını sıralı (label, fiyat) çiftlerine çözer.
// Sıra sheet'teki yazım sırası, o yüzden map yerine token token okuyoruz.
func (m MenuItem) SizeTiers() []SizeTier {
	if strings.TrimSpace(m.Sizes) == "" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(m.Sizes)))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var tiers []SizeTier
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		label, ok := keyTok.(string)
		if !ok {
			return nil
		}

		var price Money
		if err := dec.Decode(&price); err != nil {
			return nil
		}
		tiers = append(tiers, SizeTier{Label: label, Price: price})
	}
	return tiers
}

// PriceFor: seçilen boy için birim fiyat. Boy bulunamazsa veya boy tanımı
// hiç yoksa baz fiyata döner.
func (m MenuItem) PriceFor(size string) Money {
	for _, t := range m.SizeTiers() {
		if t.Label == size {
			return t.Price
		}
	}
	return m.Price
}
