package dashboard

import (
	"context"
	"time"

	"qrmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Store interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
}

type StatsResponse struct {
	TotalItems      int                        `json:"total_items"`
	OrdersToday     int                        `json:"orders_today"`
	RevenueToday    models.Money               `json:"revenue_today"`
	PopularCategory string                     `json:"popular_category"`
	StatusCounts    map[models.OrderStatus]int `json:"status_counts"`
}

// GET /api/admin/dashboard — panel açılış kartları.
// Her çağrıda sheet'ten taze veri; dashboard nadir açılıyor, cache değmez.
func StatsHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		menu, err := store.FetchMenu(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Menü çekilemedi")
		}
		orders, err := store.FetchOrders(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Siparişler çekilemedi")
		}

		res := StatsResponse{
			TotalItems:   len(menu),
			StatusCounts: make(map[models.OrderStatus]int),
		}

		categoryCount := make(map[string]int)
		for _, it := range menu {
			categoryCount[it.Category]++
			if categoryCount[it.Category] > categoryCount[res.PopularCategory] {
				res.PopularCategory = it.Category
			}
		}

		today := time.Now().Format("2006-01-02")
		for _, o := range orders {
			res.StatusCounts[o.Status]++
			if o.CreatedAt().Format("2006-01-02") != today {
				continue
			}
			res.OrdersToday++
			if o.Status != models.StatusDismissed {
				res.RevenueToday += o.Total
			}
		}

		return c.JSON(res)
	}
}
