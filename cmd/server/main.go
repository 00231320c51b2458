package main

import (
	"context"                         // context package is needed for Redis operations
	"course_catalog/internal/api"     // Custom package for API handlers
	"course_catalog/internal/catalog" // Catalog services
	"course_catalog/internal/config"  // Custom package for configuration
	"course_catalog/internal/db"      // Database connection
	"course_catalog/internal/flash"   // Flash messages
	"course_catalog/internal/storage" // Blob storage
	"errors"                          // Error matching
	"net/http"                        // HTTP server
	"os"                              // Signals
	"os/signal"                       // Signal handling
	"syscall"                         // SIGTERM
	"time"                            // Shutdown timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/rs/cors"           // CORS handling
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine-readable logs in production
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client; caching is skipped when no address is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR is not set, caching disabled")
	}

	// Setup blob storage for uploaded images
	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		logrus.Fatalf("failed to set up storage: %v", err)
	}

	// Session key for flash messages
	sessionKey := cfg.SessionKey
	if sessionKey == "" {
		if cfg.IsProd {
			logrus.Fatal("SESSION_KEY is not set")
		}
		sessionKey = "dev-session-key-change-me-0123456" // Development only
		logrus.Warn("SESSION_KEY is not set, using the development key")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	images := catalog.NewImageSaver(gdb, blobs)
	api.RegisterRoutes(r, api.Deps{
		DB:        gdb,
		Courses:   catalog.NewCourseService(gdb, redisClient, images),
		Reviews:   catalog.NewReviewService(gdb, redisClient),
		Images:    images,
		Flashes:   flash.NewStore([]byte(sessionKey), cfg.IsProd),
		JWTSecret: cfg.JWTSecret,
	})

	// Wrap the router with CORS handling
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Stop accepting requests on SIGINT/SIGTERM and let in-flight ones finish
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("graceful shutdown failed: %v", err)
		}
	}()

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("server failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logrus.Info("Server stopped")
}

// newBlobStore builds the configured blob store
func newBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	if cfg.Driver != "s3" {
		return storage.NewDiskStore(cfg.UploadDir) // Local directory
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:     cfg.Endpoint,
		Region:       cfg.Region,
		Bucket:       cfg.Bucket,
		AccessKey:    cfg.AccessKey,
		SecretKey:    cfg.SecretKey,
		UsePathStyle: cfg.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	if err := s3Store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3Store, nil
}
