package notify

import (
	"errors"

	"qrmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Kasa/mutfak paneli uçları (staff JWT arkasında)

type AdvanceRequest struct {
	Status models.OrderStatus `json:"status"`
}

type ListeningRequest struct {
	Listening bool `json:"listening"`
}

// GET /api/panel/notifications
func ListNotificationsHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"listening":     sync.Listening(),
			"notifications": sync.Entries(),
		})
	}
}

// POST /api/panel/notifications/:id/status
func AdvanceStatusHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdvanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := sync.Advance(c.Params("id"), body.Status); err != nil {
			switch {
			case errors.Is(err, ErrUnknownNotification):
				return fiber.NewError(fiber.StatusNotFound, "Bildirim listede yok")
			case errors.Is(err, ErrInvalidTransition):
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz durum geçişi")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/panel/notifications/:id
func DismissHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sync.Dismiss(c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim listede yok")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/panel/notifications/clear — yalnızca panel temizlenir
func ClearNotificationsHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sync.ClearAll()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/panel/listening — zili aç/kapat
func SetListeningHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ListeningRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Listening {
			sync.Resume()
		} else {
			sync.Pause()
		}
		return c.JSON(fiber.Map{"listening": sync.Listening()})
	}
}

// POST /api/panel/refresh — poll'u bekletmeden elle tetikle
func RefreshHandler(sync *Synchronizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sync.Poll(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Sheet'e ulaşılamadı")
		}
		return c.JSON(fiber.Map{"notifications": sync.Entries()})
	}
}

// GET /api/panel/events — sipariş akışının bıraktığı son sinyaller
func RecentEventsHandler(bus *Bus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(bus.Recent(20))
	}
}
