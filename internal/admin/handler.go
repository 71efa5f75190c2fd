package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"qrmenu-backend/internal/audit"
	"qrmenu-backend/internal/auth"
	"qrmenu-backend/internal/config"
	"qrmenu-backend/internal/models"
	"qrmenu-backend/internal/ordering"

	"github.com/gofiber/fiber/v2"
)

// Admin paneli uçları (admin JWT arkasında)

type OrderStore interface {
	FetchOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

type MenuItemRequest struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Ingredients string  `json:"ingredients"`
	Price       float64 `json:"price"`
	Sizes       string  `json:"sizes"`
	Image       string  `json:"image"`
	Available   *bool   `json:"available"` // verilmezse true
}

func (r MenuItemRequest) toModel() models.MenuItem {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return models.MenuItem{
		ID:          r.ID,
		Category:    r.Category,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Price:       models.Money(r.Price),
		Sizes:       r.Sizes,
		Image:       r.Image,
		Available:   available,
	}
}

func actorEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(auth.CtxEmailKey).(string); ok {
		return email
	}
	return ""
}

func writeAudit(auditLog *audit.Log, c *fiber.Ctx, entityType, entityID string, action audit.Action, desc string) {
	err := auditLog.Write(audit.Entry{
		UserEmail:   actorEmail(c),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: desc,
	})
	if err != nil {
		log.Printf("[WARN] audit yazılamadı: %v", err)
	}
}

func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	case errors.Is(err, ErrDuplicateID):
		return fiber.NewError(fiber.StatusBadRequest, "Bu id ile ürün zaten var")
	case errors.Is(err, ErrInvalidItem):
		return fiber.NewError(fiber.StatusBadRequest, "İsim, kategori ve fiyat zorunlu")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
	}
}

// GET /api/admin/menu — available filtresi olmadan tüm katalog
func ListMenuHandler(editor *CatalogEditor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(editor.Items(c.Context()))
	}
}

// POST /api/admin/menu
func CreateMenuItemHandler(editor *CatalogEditor, catalog *ordering.CatalogCache, auditLog *audit.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		item, err := editor.Create(body.toModel())
		if err != nil {
			return mapCatalogError(err)
		}

		catalog.Invalidate()
		writeAudit(auditLog, c, "menu_item", item.ID, audit.ActionCreate, item.Name)

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/admin/menu/:id
func UpdateMenuItemHandler(editor *CatalogEditor, catalog *ordering.CatalogCache, auditLog *audit.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		body.ID = c.Params("id")

		item, err := editor.Update(body.toModel())
		if err != nil {
			return mapCatalogError(err)
		}

		catalog.Invalidate()
		writeAudit(auditLog, c, "menu_item", item.ID, audit.ActionUpdate, item.Name)

		return c.JSON(item)
	}
}

// DELETE /api/admin/menu/:id
func DeleteMenuItemHandler(editor *CatalogEditor, catalog *ordering.CatalogCache, auditLog *audit.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := editor.Delete(id); err != nil {
			return mapCatalogError(err)
		}

		catalog.Invalidate()
		writeAudit(auditLog, c, "menu_item", id, audit.ActionDelete, "")

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/menu/:id/toggle — hızlı stok kapatma
func ToggleAvailabilityHandler(editor *CatalogEditor, catalog *ordering.CatalogCache, auditLog *audit.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := editor.ToggleAvailability(c.Params("id"))
		if err != nil {
			return mapCatalogError(err)
		}

		catalog.Invalidate()
		writeAudit(auditLog, c, "menu_item", item.ID, audit.ActionUpdate,
			fmt.Sprintf("available=%t", item.Available))

		return c.JSON(item)
	}
}

// GET /api/admin/orders?status=pending&date=2025-01-30
func ListOrdersHandler(store OrderStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := store.FetchOrders(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Siparişler çekilemedi")
		}

		statusFilter := models.OrderStatus(c.Query("status"))
		dateFilter := c.Query("date") // YYYY-MM-DD

		res := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if statusFilter != "" && models.NormalizeStatus(o.Status) != statusFilter {
				continue
			}
			if dateFilter != "" && o.CreatedAt().Format("2006-01-02") != dateFilter {
				continue
			}
			res = append(res, o)
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatusHandler(store OrderStore, auditLog *audit.Log) fiber.Handler {
	type statusBody struct {
		Status models.OrderStatus `json:"status"`
	}
	return func(c *fiber.Ctx) error {
		var body statusBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		orderID := c.Params("id")

		orders, err := store.FetchOrders(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Siparişler çekilemedi")
		}

		var current *models.Order
		for i := range orders {
			if orders[i].OrderID == orderID {
				current = &orders[i]
				break
			}
		}
		if current == nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		// Eski istemcilerin yazdığı satırlarda status boş ya da "new" olabilir
		if !models.ValidStatusTransition(models.NormalizeStatus(current.Status), body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz durum geçişi")
		}

		if err := store.UpdateOrderStatus(c.Context(), orderID, body.Status); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Durum sheet'e yazılamadı")
		}

		writeAudit(auditLog, c, "order", orderID, audit.ActionUpdate, string(body.Status))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/sync — yerel kopyaları sheet'ten tazele
func SyncHandler(editor *CatalogEditor, catalog *ordering.CatalogCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := editor.Refresh(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Senkronizasyon başarısız")
		}
		catalog.Invalidate()
		return c.JSON(fiber.Map{"synced_at": time.Now().Format(time.RFC3339)})
	}
}

// GET /api/admin/export/menu.xlsx
func ExportMenuHandler(editor *CatalogEditor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := BuildMenuWorkbook(editor.Items(c.Context()))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya oluşturulamadı")
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="menu-export.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

// POST /api/admin/import/menu — multipart "file" alanında xlsx
func ImportMenuHandler(editor *CatalogEditor, catalog *ordering.CatalogCache, auditLog *audit.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya eksik ('file' alanı)")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		items, err := ParseMenuWorkbook(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		created, updated, failed := 0, 0, 0
		for _, item := range items {
			isNew, err := editor.Upsert(c.Context(), item)
			if err != nil {
				failed++
				log.Printf("[WARN] import: %s sheet'e yazılamadı: %v", item.Name, err)
				continue
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}

		catalog.Invalidate()
		writeAudit(auditLog, c, "menu_item", "", audit.ActionImport,
			fmt.Sprintf("%d yeni, %d güncelleme, %d hata", created, updated, failed))

		return c.JSON(fiber.Map{
			"created": created,
			"updated": updated,
			"failed":  failed,
		})
	}
}

// GET /api/admin/backup — menü + siparişlerin JSON yedeği
func BackupHandler(editor *CatalogEditor, store OrderStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := store.FetchOrders(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Siparişler çekilemedi")
		}

		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="backup-%s.json"`, time.Now().Format("2006-01-02")))
		return c.JSON(fiber.Map{
			"menu":      editor.Items(c.Context()),
			"orders":    orders,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// GET /api/admin/qr — menünün QR kodu (harici servis üretiyor)
func QRCodeHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qrURL := "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(cfg.MenuPublicURL)
		return c.JSON(fiber.Map{
			"menuUrl": cfg.MenuPublicURL,
			"qrUrl":   qrURL,
		})
	}
}
