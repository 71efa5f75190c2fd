package audit

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/audit-logs?limit=50
func ListAuditLogsHandler(auditLog *Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if s := c.Query("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}

		entries, err := auditLog.List(limit)
		if err != nil {
			log.Printf("[WARN] audit log okunamadı: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}
		return c.JSON(entries)
	}
}
