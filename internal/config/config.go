package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // Database driver: mysql, postgres or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBPath     string // SQLite database file
	JWTSecret  string // JWT secret key
	SessionKey string // Cookie session signing key (flash messages)
	RedisAddr  string // Redis server address, empty disables caching
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	Storage     StorageConfig // Blob storage for uploaded images
	CORSOrigins []string      // Allowed CORS origins
}

// StorageConfig selects and configures the blob store for uploads
type StorageConfig struct {
	Driver       string // disk or s3
	UploadDir    string // Directory used by the disk driver
	Endpoint     string // S3-compatible endpoint
	Region       string // S3 region
	Bucket       string // S3 bucket
	AccessKey    string // S3 access key
	SecretKey    string // S3 secret key
	UsePathStyle bool   // Path-style addressing (MinIO and friends)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),      // Application port
		DBDriver:   getEnv("DB_DRIVER", "mysql"),    // Database driver
		DBUser:     os.Getenv("DB_USER"),            // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),        // Database password
		DBHost:     getEnv("DB_HOST", "localhost"),  // Database host
		DBPort:     os.Getenv("DB_PORT"),            // Database port
		DBName:     getEnv("DB_NAME", "courses"),    // Database name
		DBPath:     getEnv("DB_PATH", "courses.db"), // SQLite file
		JWTSecret:  os.Getenv("JWT_SECRET"),         // JWT secret key
		SessionKey: os.Getenv("SESSION_KEY"),        // Session key
		RedisAddr:  os.Getenv("REDIS_ADDR"),         // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),         // Redis password
		RedisDB:    redisDB,                         // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",  // Is production environment
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "disk"),     // Blob store driver
			UploadDir:    getEnv("UPLOAD_DIR", "media/images"), // Upload directory
			Endpoint:     os.Getenv("S3_ENDPOINT"),             // S3 endpoint
			Region:       getEnv("S3_REGION", "us-east-1"),     // S3 region
			Bucket:       os.Getenv("S3_BUCKET"),               // S3 bucket
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),           // S3 access key
			SecretKey:    os.Getenv("S3_SECRET_KEY"),           // S3 secret key
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") != "false",
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")), // Allowed origins
	}
}

// getEnv returns the variable's value or def when it is unset or empty
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList parses a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
