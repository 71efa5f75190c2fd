package auth

import (
	"crypto/subtle"
	"strings"

	"qrmenu-backend/internal/config"
	"qrmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Tek şubeli mekan: admin hesabı ve personel PIN'i env'den geliyor,
// kullanıcı tablosu yok. Kalıcı tek veri kaynağı sheet olduğu için
// kimlik bilgisi orada tutulmuyor.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StaffLoginRequest struct {
	PIN string `json:"pin"`
}

// POST /api/auth/login — admin girişi
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email != strings.ToLower(cfg.AdminEmail) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, body.Email, models.RoleAdmin)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"email": body.Email,
				"role":  models.RoleAdmin,
			},
		})
	}
}

// POST /api/auth/staff-login — bildirim paneli için ortak PIN
func StaffLoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StaffLoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if cfg.StaffPIN == "" {
			return fiber.NewError(fiber.StatusForbidden, "Personel girişi kapalı")
		}
		if subtle.ConstantTimeCompare([]byte(body.PIN), []byte(cfg.StaffPIN)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "PIN hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, "staff", models.RoleStaff)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"role": models.RoleStaff,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"email": c.Locals(CtxEmailKey),
			"role":  c.Locals(CtxUserRoleKey),
		})
	}
}
