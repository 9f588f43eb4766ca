package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type API struct {
	BaseURL       string
	Timeout       time.Duration
	ListTimeout   time.Duration
	UploadTimeout time.Duration
}

type DB struct {
	Driver     string
	DbPATH     string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Enabled    bool
	Endpoint   string
	PublicURL  string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Images struct {
	MaxFileSize  int64
	MaxDimension int
	Quality      int
}

type Session struct {
	CookieName   string
	VisitorName  string
	CookieSecure bool
	ViewCooldown time.Duration
}

type Config struct {
	ServerPort     int
	API            API
	DB             DB
	MinIO          MinIO
	Images         Images
	Session        Session
	JWTSecretKey   string
	MigrationsPath string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("config: invalid duration %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func LoadAPI() API {
	return API{
		BaseURL:       getEnv("API_BASE_URL", "http://localhost:8084/api"),
		Timeout:       getEnvDuration("API_TIMEOUT", 15*time.Second),
		ListTimeout:   getEnvDuration("API_LIST_TIMEOUT", 30*time.Second),
		UploadTimeout: getEnvDuration("API_UPLOAD_TIMEOUT", 60*time.Second),
	}
}

// LoadDB defaults to an embedded sqlite file. An empty DB_DRIVER keeps view
// timestamps in memory only.
func LoadDB() DB {
	return DB{
		Driver:     getEnv("DB_DRIVER", "sqlite3"),
		DbPATH:     getEnv("DB_PATH", "blogfront.db"),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "blogfront"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Enabled:    getEnvBool("MINIO_ENABLED", false),
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "blog-images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadImages() Images {
	return Images{
		MaxFileSize:  getEnvAsInt64("MAX_IMAGE_SIZE", 2*1024*1024),
		MaxDimension: getEnvAsInt("MAX_IMAGE_DIMENSION", 1920),
		Quality:      getEnvAsInt("IMAGE_QUALITY", 85),
	}
}

func LoadSession() Session {
	return Session{
		CookieName:   getEnv("SESSION_COOKIE", "token"),
		VisitorName:  getEnv("VISITOR_COOKIE", "visitor_id"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		ViewCooldown: getEnvDuration("VIEW_COOLDOWN", time.Hour),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:     getEnvAsInt("SERVER_PORT", 3000),
		API:            LoadAPI(),
		DB:             LoadDB(),
		MinIO:          LoadMinIO(),
		Images:         LoadImages(),
		Session:        LoadSession(),
		JWTSecretKey:   getEnv("JWT_SECRET_KEY", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}
