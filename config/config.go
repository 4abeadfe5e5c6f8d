package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/models"
)

// Config is built once at startup and handed to the components that need
// it. Nothing mutates it afterwards.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string
	QueueName string

	UploadCacheDir  string
	UploadStoreDir  string
	UploadURLSecret string

	SessionSecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		QueueName: os.Getenv("QUEUE_NAME"),

		UploadCacheDir:  os.Getenv("UPLOAD_CACHE_DIR"),
		UploadStoreDir:  os.Getenv("UPLOAD_STORE_DIR"),
		UploadURLSecret: os.Getenv("UPLOAD_URL_SECRET"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	if cfg.QueueName == "" {
		cfg.QueueName = "djtip:jobs"
	}
	if cfg.UploadCacheDir == "" {
		cfg.UploadCacheDir = "./uploads/cache"
	}
	if cfg.UploadStoreDir == "" {
		cfg.UploadStoreDir = "./uploads/store"
	}
	if cfg.UploadURLSecret == "" {
		cfg.UploadURLSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("JWT_SECRET")
	}

	return cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Event{}, &models.User{}, &models.Performer{}, &models.Tip{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InitRedis connects the job queue broker. A missing broker is a warning,
// not a fatal error: the queue falls back to inline execution.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, background jobs will run inline")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis connection warning: %v (background jobs will run inline)", err)
		return nil
	}
	return client
}
