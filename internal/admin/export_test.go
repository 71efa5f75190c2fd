package admin

import (
	"bytes"
	"strings"
	"testing"

	"qrmenu-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, f *excelize.File) *bytes.Buffer {
	t.Helper()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestMenuWorkbookRoundTrip(t *testing.T) {
	src := []models.MenuItem{
		{
			ID:          "k1",
			Category:    "Kebap",
			Name:        "Adana",
			Description: "Acılı",
			Ingredients: "kıyma, biber",
			Price:       120,
			Sizes:       `{"Porsiyon":"120","1.5 Porsiyon":"160"}`,
			Image:       "https://ornek.tld/adana.jpg",
			Available:   true,
		},
		{ID: "i1", Category: "İçecek", Name: "Ayran", Price: 15, Available: false},
	}

	f, err := BuildMenuWorkbook(src)
	if err != nil {
		t.Fatalf("BuildMenuWorkbook: %v", err)
	}

	got, err := ParseMenuWorkbook(workbookBytes(t, f))
	if err != nil {
		t.Fatalf("ParseMenuWorkbook: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("%d ürün, want 2", len(got))
	}
	if got[0].Name != "Adana" || got[0].Price != 120 || got[0].Sizes != src[0].Sizes {
		t.Errorf("ilk ürün yanlış taşındı: %+v", got[0])
	}
	if got[1].Available {
		t.Error("Ayran pasif kalmalıydı")
	}
}

func buildRows(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for ri, row := range rows {
		for ci, v := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	return workbookBytes(t, f)
}

var headerRow = []interface{}{"ID", "Kategori", "İsim", "Açıklama", "İçindekiler", "Fiyat", "Boylar (JSON)", "Görsel", "Aktif"}

func TestParseMenuWorkbookRules(t *testing.T) {
	t.Run("virgüllü fiyat kabul edilir", func(t *testing.T) {
		buf := buildRows(t, [][]interface{}{
			headerRow,
			{"", "İçecek", "Çay", "", "", "4,50", "", "", ""},
		})
		items, err := ParseMenuWorkbook(buf)
		if err != nil {
			t.Fatalf("ParseMenuWorkbook: %v", err)
		}
		if len(items) != 1 || items[0].Price != 4.5 {
			t.Errorf("items = %+v", items)
		}
		if !items[0].Available {
			t.Error("aktif sütunu boşsa ürün aktif sayılır")
		}
	})

	t.Run("boş satırlar atlanır", func(t *testing.T) {
		buf := buildRows(t, [][]interface{}{
			headerRow,
			{"", "", "", "", "", "", "", "", ""},
			{"", "İçecek", "Çay", "", "", "4.50", "", "", ""},
		})
		items, err := ParseMenuWorkbook(buf)
		if err != nil {
			t.Fatalf("ParseMenuWorkbook: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("%d ürün, want 1", len(items))
		}
	})

	t.Run("hayır pasif sayılır", func(t *testing.T) {
		buf := buildRows(t, [][]interface{}{
			headerRow,
			{"", "İçecek", "Çay", "", "", "4.50", "", "", "Hayır"},
		})
		items, err := ParseMenuWorkbook(buf)
		if err != nil {
			t.Fatalf("ParseMenuWorkbook: %v", err)
		}
		if items[0].Available {
			t.Error("available = true, want false")
		}
	})
}

func TestParseMenuWorkbookErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]interface{}
		wantErr string
	}{
		{
			"ürün satırı yok",
			[][]interface{}{headerRow},
			"ürün satırı yok",
		},
		{
			"isim eksik",
			[][]interface{}{headerRow, {"", "İçecek", "", "", "", "4.50", "", "", ""}},
			"satır 2",
		},
		{
			"geçersiz fiyat",
			[][]interface{}{headerRow, {"", "İçecek", "Çay", "", "", "bedava", "", "", ""}},
			"satır 2",
		},
		{
			"negatif fiyat",
			[][]interface{}{headerRow, {"", "İçecek", "Çay", "", "", "-3", "", "", ""}},
			"satır 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMenuWorkbook(buildRows(t, tt.rows))
			if err == nil {
				t.Fatal("hata bekleniyordu")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, %q içermeli", err, tt.wantErr)
			}
		})
	}
}

func TestParseMenuWorkbookInvalidFile(t *testing.T) {
	if _, err := ParseMenuWorkbook(strings.NewReader("bu bir xlsx değil")); err == nil {
		t.Fatal("hata bekleniyordu")
	}
}
