package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	BillingSyncURL string
	NotifyURL      string

	OutboxInterval time.Duration
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dbUser := strings.TrimSpace(os.Getenv("DB_USER"))
	if dbUser == "" {
		dbUser = "root"
	}
	dbHost := strings.TrimSpace(os.Getenv("DB_HOST"))
	if dbHost == "" {
		dbHost = "127.0.0.1:3306"
	}
	dbName := strings.TrimSpace(os.Getenv("DB_NAME"))
	if dbName == "" {
		dbName = "kn_system"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-me"
	}

	outboxInterval := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OUTBOX_INTERVAL_SEC")); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			outboxInterval = time.Duration(sec) * time.Second
		}
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        ginMode,
		DBUser:         dbUser,
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         dbHost,
		DBName:         dbName,
		JWTSecret:      jwtSecret,
		BillingSyncURL: strings.TrimSpace(os.Getenv("BILLING_SYNC_URL")),
		NotifyURL:      strings.TrimSpace(os.Getenv("NOTIFY_URL")),
		OutboxInterval: outboxInterval,
	}
}
