package config

import (
	"os"
	"strconv"
	"strings"

	"goldmine/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// User IDs allowed to call admin endpoints, comma separated in env
	AdminUserIDs []int64

	// Withdrawal rules
	WithdrawalTaxRate  float64
	WithdrawalCooldown int // hours

	// Daily income settlement
	SettlementEnabled bool
	SettlementHour    int // local hour of day the in-process job fires
}

// Load reads configuration from environment (.env supported)
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var adminIDs []int64
	if raw := os.Getenv("ADMIN_USER_IDS"); raw != "" {
		for _, idStr := range strings.Split(raw, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	taxRate := 0.18
	if v := os.Getenv("WITHDRAWAL_TAX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
			taxRate = f
		}
	}

	cooldown := 24
	if v := os.Getenv("WITHDRAWAL_COOLDOWN_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cooldown = n
		}
	}

	settlementEnabled := os.Getenv("SETTLEMENT_ENABLED") != "false"

	settlementHour := 0
	if v := os.Getenv("SETTLEMENT_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
			settlementHour = n
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:            port,
		DatabaseURL:        dbURL,
		JWTSecret:          jwtSecret,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		AdminUserIDs:       adminIDs,
		WithdrawalTaxRate:  taxRate,
		WithdrawalCooldown: cooldown,
		SettlementEnabled:  settlementEnabled,
		SettlementHour:     settlementHour,
	}
}

// IsAdmin reports whether the user ID is configured as an admin.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
