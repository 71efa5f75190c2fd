package admin

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"qrmenu-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// Menünün toplu dışa/içe aktarımı xlsx ile yapılır; mekan sahibi menüyü
// Excel'de düzenleyip geri yüklüyor.

const menuSheetName = "Menu"

var menuColumns = []string{"ID", "Kategori", "İsim", "Açıklama", "İçindekiler", "Fiyat", "Boylar (JSON)", "Görsel", "Aktif"}

func BuildMenuWorkbook(items []models.MenuItem) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", menuSheetName)

	for i, h := range menuColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(menuSheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for r, it := range items {
		values := []interface{}{
			it.ID,
			it.Category,
			it.Name,
			it.Description,
			it.Ingredients,
			float64(it.Price),
			it.Sizes,
			it.Image,
			it.Available,
		}
		for ci, v := range values {
			cell, err := excelize.CoordinatesToCellName(ci+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(menuSheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// ParseMenuWorkbook: ilk satır başlık. id boş bırakılırsa import sırasında
// üretilir; isim, kategori ve fiyat zorunlu, hatalı satır hatasıyla döner.
func ParseMenuWorkbook(r io.Reader) ([]models.MenuItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx açılamadı: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("satırlar okunamadı: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dosyada ürün satırı yok")
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var items []models.MenuItem
	for ri, row := range rows[1:] {
		name := cell(row, 2)
		category := cell(row, 1)
		priceStr := cell(row, 5)

		// Tamamen boş satırları sessizce geç
		if name == "" && category == "" && priceStr == "" {
			continue
		}
		if name == "" || category == "" || priceStr == "" {
			return nil, fmt.Errorf("satır %d: isim, kategori ve fiyat zorunlu", ri+2)
		}

		price, err := strconv.ParseFloat(strings.ReplaceAll(priceStr, ",", "."), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("satır %d: geçersiz fiyat %q", ri+2, priceStr)
		}

		available := true
		switch strings.ToLower(cell(row, 8)) {
		case "false", "0", "hayır", "hayir":
			available = false
		}

		items = append(items, models.MenuItem{
			ID:          cell(row, 0),
			Category:    category,
			Name:        name,
			Description: cell(row, 3),
			Ingredients: cell(row, 4),
			Price:       models.Money(price),
			Sizes:       cell(row, 6),
			Image:       cell(row, 7),
			Available:   available,
		})
	}

	return items, nil
}
