package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	SheetsAPIURL      string // Google Apps Script web app adresi (kayıt deposu)
	JWTSecret         string
	CORSOrigins       string
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash, env'den gelir
	StaffPIN          string // bildirim paneli girişi için ortak PIN
	MaxTableNumber    int
	PollInterval      time.Duration
	SessionStorePath  string // masa numarası oturum dosyası
	AuditLogPath      string
	MenuPublicURL     string // QR kodun işaret edeceği menü adresi
}

func Load() *Config {
	// .env varsa yükle, yoksa sessizce geç (production'da env'ler dışarıdan gelir)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		SheetsAPIURL:      getEnv("SHEETS_API_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		StaffPIN:          getEnv("STAFF_PIN", ""),
		MaxTableNumber:    getEnvInt("MAX_TABLE_NUMBER", 100),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		SessionStorePath:  getEnv("SESSION_STORE_PATH", "./data/sessions.json"),
		AuditLogPath:      getEnv("AUDIT_LOG_PATH", "./data/audit.log"),
		MenuPublicURL:     getEnv("MENU_PUBLIC_URL", "http://localhost:8080/menu"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.SheetsAPIURL == "" {
		log.Fatal("[FATAL] SHEETS_API_URL tanımlanmamış! Menü ve sipariş verisi bu adreste tutuluyor.")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		log.Fatal("[FATAL] ADMIN_EMAIL ve ADMIN_PASSWORD_HASH tanımlanmalı (bcrypt hash bekleniyor).")
	}
	if cfg.StaffPIN == "" {
		log.Println("[WARN] STAFF_PIN tanımlı değil, bildirim paneli girişi kapalı olacak.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	if cfg.MaxTableNumber < 1 {
		log.Println("[WARN] MAX_TABLE_NUMBER geçersiz, 100 kullanılıyor.")
		cfg.MaxTableNumber = 100
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s sayı değil, varsayılan %d kullanılıyor", key, def)
	}
	return def
}
