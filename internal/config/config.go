package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	PoolSize int
	CacheTTL time.Duration
	LogFile  string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "shelfwise.db"
	} // sqlite file in project root
	pool := 10
	if v := os.Getenv("POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pool = n
		}
	}
	ttl := 5 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./shelfwise.log"
	}

	cfg := Config{Port: port, DBDSN: dsn, PoolSize: pool, CacheTTL: ttl, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s POOL_SIZE=%d CACHE_TTL=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.PoolSize, cfg.CacheTTL, cfg.LogFile)
	return cfg
}
