package ordering

import (
	"errors"

	"qrmenu-backend/internal/cart"
	"qrmenu-backend/internal/models"
	"qrmenu-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Misafir tarafı. Oturum kimliği X-Session-ID header'ında taşınır;
// masa kurulurken sunucu üretir, istemci sonraki isteklerde geri yollar.

const sessionHeader = "X-Session-ID"

type SetTableRequest struct {
	TableNumber int `json:"tableNumber"`
}

type AddCartItemRequest struct {
	ID   string `json:"id"`
	Size string `json:"size"`
}

type PlaceOrderRequest struct {
	Notes string `json:"notes"`
}

type QuickRequestBody struct {
	Request string `json:"request"`
}

// GET /api/menu?category=Hot%20Drinks
// Sadece available ürünler döner; menü çekilemezse boş liste (müşteri
// ekranı hata yerine boş menü görür)
func GetMenuHandler(catalog *CatalogCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")

		items := catalog.Items(c.Context())
		res := make([]models.MenuItem, 0, len(items))
		for _, it := range items {
			if !it.Available {
				continue
			}
			if category != "" && it.Category != category {
				continue
			}
			res = append(res, it)
		}
		return c.JSON(res)
	}
}

// GET /api/menu/categories — menüdeki sırayla, tekrarsız.
// Tüm ürünleri kapatılmış kategori misafire boş sekme olarak görünmesin
func GetCategoriesHandler(catalog *CatalogCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seen := make(map[string]bool)
		categories := []string{}
		for _, it := range catalog.Items(c.Context()) {
			if !it.Available {
				continue
			}
			if it.Category != "" && !seen[it.Category] {
				seen[it.Category] = true
				categories = append(categories, it.Category)
			}
		}
		return c.JSON(categories)
	}
}

// POST /api/table — masa numarası kur/güncelle
func SetTableHandler(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SetTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		sid, err := sessions.Establish(c.Get(sessionHeader), body.TableNumber)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa numarası")
		}

		return c.JSON(fiber.Map{
			"sessionId":   sid,
			"tableNumber": body.TableNumber,
		})
	}
}

// GET /api/table
func GetTableHandler(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, ok := sessions.Table(c.Get(sessionHeader))
		if !ok {
			return c.JSON(fiber.Map{"established": false})
		}
		return c.JSON(fiber.Map{
			"established": true,
			"tableNumber": table,
		})
	}
}

// POST /api/cart/items
func AddCartItemHandler(catalog *CatalogCache, carts *cart.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddCartItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		item, ok := catalog.Find(c.Context(), body.ID)
		if !ok || !item.Available {
			return fiber.NewError(fiber.StatusNotFound, "Ürün menüde yok")
		}

		crt := carts.Get(c.Get(sessionHeader))
		crt.AddLine(item, body.Size)

		return cartResponse(c, crt)
	}
}

// DELETE /api/cart/items/:id?size=Small
func RemoveCartItemHandler(carts *cart.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		crt := carts.Get(c.Get(sessionHeader))
		crt.RemoveLine(c.Params("id"), c.Query("size"))
		return cartResponse(c, crt)
	}
}

// GET /api/cart
func GetCartHandler(carts *cart.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return cartResponse(c, carts.Get(c.Get(sessionHeader)))
	}
}

func cartResponse(c *fiber.Ctx, crt *cart.Cart) error {
	return c.JSON(fiber.Map{
		"lines": crt.Lines(),
		"total": crt.Total(),
		"count": crt.ItemCount(),
	})
}

// POST /api/orders — checkout
func PlaceOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderRequest
		if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		order, err := svc.PlaceOrder(c.Context(), c.Get(sessionHeader), body.Notes)
		if err != nil {
			switch {
			case errors.Is(err, ErrTableRequired):
				return fiber.NewError(fiber.StatusPreconditionRequired, "Önce masa numaranı seç")
			case errors.Is(err, ErrEmptyCart):
				return fiber.NewError(fiber.StatusBadRequest, "Sepet boş")
			default:
				// Sepet olduğu gibi duruyor, kullanıcı tekrar dener
				return fiber.NewError(fiber.StatusBadGateway, "Sipariş kaydedilemedi, lütfen tekrar dene")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"orderId":     order.OrderID,
			"tableNumber": order.TableNumber,
			"total":       order.Total,
		})
	}
}

// POST /api/quick-requests
func QuickRequestHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QuickRequestBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		req, err := svc.SendQuickRequest(c.Context(), c.Get(sessionHeader), body.Request)
		if err != nil {
			switch {
			case errors.Is(err, ErrTableRequired):
				return fiber.NewError(fiber.StatusPreconditionRequired, "Önce masa numaranı seç")
			case errors.Is(err, ErrEmptyRequest):
				return fiber.NewError(fiber.StatusBadRequest, "İstek metni boş olamaz")
			default:
				return fiber.NewError(fiber.StatusBadGateway, "İstek gönderilemedi, lütfen tekrar dene")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"requestId":   req.RequestID,
			"tableNumber": req.TableNumber,
			"request":     req.Request,
		})
	}
}

// GET /api/quick-requests/presets — hızlı istek butonları
func QuickRequestPresetsHandler() fiber.Handler {
	presets := []string{"Su", "Peçete", "Hesap", "Garson çağır", "Kömür değişimi"}
	return func(c *fiber.Ctx) error {
		return c.JSON(presets)
	}
}
