package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/pkg/db"
)

type Config struct {
	DatabaseURL  string
	KafkaAddress string
	JWTSecret    []byte
	TaxRateBP    int64
	ServerPort   string
	LogLevel     string
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		DatabaseURL:  must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		JWTSecret:    []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		TaxRateBP:    800,
		ServerPort:   os.Getenv("SERVER_PORT"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("TAX_RATE_BP"); v != "" {
		bp, err := strconv.ParseInt(v, 10, 64)
		if err != nil || bp < 0 {
			log.Fatalf("invalid TAX_RATE_BP %q", v)
		}
		cfg.TaxRateBP = bp
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return cfg
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(
		&models.Book{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TransactionLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}
