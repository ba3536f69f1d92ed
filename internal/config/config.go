package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int
	CacheTTL     time.Duration // parsed-upload cache expiry
	PreviewRows  int           // row cap for /preview responses
	MapWorkers   int           // 0 = NumCPU
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8083"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	ttl, _ := strconv.Atoi(getenv("CACHE_TTL_SEC", "1200"))
	preview, _ := strconv.Atoi(getenv("PREVIEW_ROWS", "1000"))
	workers, _ := strconv.Atoi(getenv("MAP_WORKERS", "0"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/keyword-mapping-service.log"),
		MaxUploadMB:  mb,
		CacheTTL:     time.Duration(ttl) * time.Second,
		PreviewRows:  preview,
		MapWorkers:   workers,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
