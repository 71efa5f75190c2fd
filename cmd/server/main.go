package main

import (
	"context"
	"log"
	"strings"
	"time"

	"qrmenu-backend/internal/admin"
	"qrmenu-backend/internal/audit"
	"qrmenu-backend/internal/auth"
	"qrmenu-backend/internal/cart"
	"qrmenu-backend/internal/config"
	"qrmenu-backend/internal/dashboard"
	"qrmenu-backend/internal/models"
	"qrmenu-backend/internal/notify"
	"qrmenu-backend/internal/ordering"
	"qrmenu-backend/internal/session"
	"qrmenu-backend/internal/sheets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	sheetsClient := sheets.NewClient(cfg.SheetsAPIURL)

	sessions, err := session.NewStore(cfg.SessionStorePath, cfg.MaxTableNumber)
	if err != nil {
		log.Fatalf("Oturum deposu açılamadı: %v", err)
	}

	carts := cart.NewRegistry()
	bus := notify.NewBus()
	catalog := ordering.NewCatalogCache(sheetsClient, 30*time.Second)
	orderSvc := ordering.NewService(sheetsClient, sessions, carts, bus)
	editor := admin.NewCatalogEditor(sheetsClient)
	auditLog := audit.NewLog(cfg.AuditLogPath)
	synchronizer := notify.NewSynchronizer(sheetsClient, notify.LogAlerter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go synchronizer.Run(ctx, cfg.PollInterval)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Misafir uçları (QR menü) — auth yok, masa oturumu yeterli
	api.Get("/menu", ordering.GetMenuHandler(catalog))
	api.Get("/menu/categories", ordering.GetCategoriesHandler(catalog))
	api.Post("/table", ordering.SetTableHandler(sessions))
	api.Get("/table", ordering.GetTableHandler(sessions))
	api.Get("/cart", ordering.GetCartHandler(carts))
	api.Post("/cart/items", ordering.AddCartItemHandler(catalog, carts))
	api.Delete("/cart/items/:id", ordering.RemoveCartItemHandler(carts))
	api.Post("/orders", ordering.PlaceOrderHandler(orderSvc))
	api.Post("/quick-requests", ordering.QuickRequestHandler(orderSvc))
	api.Get("/quick-requests/presets", ordering.QuickRequestPresetsHandler())

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/staff-login", auth.StaffLoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Kasa/mutfak bildirim paneli
	panel := protected.Group("/panel")
	panel.Use(auth.RequireRole(models.RoleStaff, models.RoleAdmin))

	panel.Get("/notifications", notify.ListNotificationsHandler(synchronizer))
	panel.Post("/notifications/clear", notify.ClearNotificationsHandler(synchronizer))
	panel.Post("/notifications/:id/status", notify.AdvanceStatusHandler(synchronizer))
	panel.Delete("/notifications/:id", notify.DismissHandler(synchronizer))
	panel.Post("/listening", notify.SetListeningHandler(synchronizer))
	panel.Post("/refresh", notify.RefreshHandler(synchronizer))
	panel.Get("/events", notify.RecentEventsHandler(bus))

	// Admin paneli
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Menü yönetimi
	adminRoutes.Get("/menu", admin.ListMenuHandler(editor))
	adminRoutes.Post("/menu", admin.CreateMenuItemHandler(editor, catalog, auditLog))
	adminRoutes.Put("/menu/:id", admin.UpdateMenuItemHandler(editor, catalog, auditLog))
	adminRoutes.Delete("/menu/:id", admin.DeleteMenuItemHandler(editor, catalog, auditLog))
	adminRoutes.Post("/menu/:id/toggle", admin.ToggleAvailabilityHandler(editor, catalog, auditLog))

	// Sipariş yönetimi
	adminRoutes.Get("/orders", admin.ListOrdersHandler(sheetsClient))
	adminRoutes.Put("/orders/:id/status", admin.UpdateOrderStatusHandler(sheetsClient, auditLog))

	// Veri işlemleri
	adminRoutes.Post("/sync", admin.SyncHandler(editor, catalog))
	adminRoutes.Get("/export/menu.xlsx", admin.ExportMenuHandler(editor))
	adminRoutes.Post("/import/menu", admin.ImportMenuHandler(editor, catalog, auditLog))
	adminRoutes.Get("/backup", admin.BackupHandler(editor, sheetsClient))
	adminRoutes.Get("/qr", admin.QRCodeHandler(cfg))

	// Dashboard & loglar
	adminRoutes.Get("/dashboard", dashboard.StatsHandler(sheetsClient))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(auditLog))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
