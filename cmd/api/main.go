package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"librairie/internal/catalog"
	apphttp "librairie/internal/http"
	"librairie/internal/httpx"
	"librairie/internal/platform/entitystore"
	"librairie/internal/platform/ranking"
)

func main() {
	_ = godotenv.Load(".env.local")

	logger := newLogger(getEnv("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	serverAddress := getEnv("APP_ADDR", ":8080")
	storeURL := mustGetEnv("ENTITY_STORE_URL", logger)
	storeAPIKey := mustGetEnv("ENTITY_STORE_API_KEY", logger)

	store := entitystore.NewClient(
		storeURL,
		storeAPIKey,
		getEnvInt("ENTITY_STORE_RPS", 5),
		getEnvInt("ENTITY_STORE_RETRIES", 2),
	)

	var ranker catalog.RankingService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		ranker = ranking.NewClient(apiKey, os.Getenv("OPENAI_MODEL"), logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI search degrades to substring matching")
	}

	pipeline := catalog.NewPipeline(store, ranker, logger)
	router := buildRouter(pipeline, store)

	rateLimit := httpx.NewRateLimitMiddleware(getEnvFloat("RATE_LIMIT_RPS", 10), getEnvInt("RATE_LIMIT_BURST", 20))
	allowedOrigins := splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", ""))

	var handler http.Handler = router
	handler = httpx.CORSMiddleware(allowedOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = rateLimit.Middleware(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", "addr", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func buildRouter(svc apphttp.CatalogService, store pinger) *http.ServeMux {
	catalogHandler := apphttp.NewCatalogHandler(svc)
	searchHandler := apphttp.NewSearchHandler(svc)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, map[string]string{"status": "ok"}, nil)
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "NOT_READY", "Entity store is unreachable", nil)
			return
		}
		httpx.JSONSuccess(w, map[string]string{"status": "ready"}, nil)
	})

	router.HandleFunc("GET /books", catalogHandler.List)
	router.HandleFunc("GET /books/recent", catalogHandler.Recent)
	router.HandleFunc("GET /books/{id}", catalogHandler.GetByID)
	router.HandleFunc("GET /books/{id}/related", catalogHandler.Related)
	router.HandleFunc("GET /search", searchHandler.Search)

	return router
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func mustGetEnv(key string, logger *slog.Logger) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	logger.Error("missing required environment variable", "key", key)
	os.Exit(1)
	return ""
}
