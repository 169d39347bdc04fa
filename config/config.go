package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	// 服务端（持久层 API）
	ServerAddr string
	JWTSecret  string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis配置，用于点赞集合的本地快照
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	LikeCacheEnabled bool
	LikeCacheTTL     time.Duration

	// MinIO, resolves stored object keys into playable URIs
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
	MinioURLExpiry time.Duration

	// 播放端
	APIBaseURL    string
	APIToken      string
	UserID        int64
	RemoteTimeout time.Duration
	RemoteRPS     float64
	FFplayPath    string
	FFprobePath   string
	DefaultCover  string
	WSAddr        string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	ffplayPath := getEnv("FFPLAY_PATH", "ffplay")

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for the password
		DBName:     getEnv("DB_NAME", "meplay_db"),

		RedisHost:        getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		LikeCacheEnabled: getEnvBool("LIKE_CACHE_ENABLED", false),
		LikeCacheTTL:     getEnvDuration("LIKE_CACHE_TTL", 30*24*time.Hour),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "meplay"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioURLExpiry: getEnvDuration("MINIO_URL_EXPIRY", 12*time.Hour),

		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8080"), "/"),
		APIToken:      getEnv("API_TOKEN", ""),
		UserID:        getEnvInt64("USER_ID", 0),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),
		RemoteRPS:     getEnvFloat("REMOTE_RPS", 10),
		FFplayPath:    ffplayPath,
		FFprobePath:   getEnv("FFPROBE_PATH", strings.Replace(ffplayPath, "ffplay", "ffprobe", 1)),
		DefaultCover:  getEnv("DEFAULT_COVER", "assets/images/default-cover.jpg"),
		WSAddr:        getEnv("WS_ADDR", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
	}
}
