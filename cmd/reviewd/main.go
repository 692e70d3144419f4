package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/memoire-review/internal/api/http"
	"github.com/mind-engage/memoire-review/internal/config"
	"github.com/mind-engage/memoire-review/internal/correction"
	"github.com/mind-engage/memoire-review/internal/correction/gemini"
	"github.com/mind-engage/memoire-review/internal/extract"
	"github.com/mind-engage/memoire-review/internal/feedback"
	"github.com/mind-engage/memoire-review/internal/rubric"
)

func main() {
	if err := config.LoadDotEnv(envOr("ENV_FILE", ".env")); err != nil {
		log.Fatalf("env file: %v", err)
	}
	cfg := config.FromEnv()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// --- Issue detection ---
	var detector correction.IssueDetector
	if cfg.RemoteDetector {
		detector = correction.NewResilientDetector(
			gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
			correction.ResilienceConfig{
				Attempts:     cfg.DetectorRetries + 1,
				InitialDelay: 500 * time.Millisecond,
				Timeout:      cfg.DetectorTimeout,
			})
		logger.Info("remote issue detection enabled", "model", cfg.GeminiModel, "retries", cfg.DetectorRetries)
	} else {
		rd, err := correction.NewRuleDetector(correction.DefaultRules())
		if err != nil {
			log.Fatalf("rules: %v", err)
		}
		detector = rd
	}

	analyzer := correction.NewAnalyzer(correction.WithDetector(detector), correction.WithLogger(logger))
	reviewer := correction.NewReviewer(analyzer, correction.StaticPlagiarism{}, correction.StaticQuality{}, logger)
	catalog := rubric.DefaultCatalog()
	feedbacks := feedback.NewService(feedback.NewInMemoryStore(), catalog, feedback.WithLogger(logger))
	extractor := extract.New(extract.NewPdfToText(cfg.PdfToTextPath), cfg.MaxUploadBytes)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: cfg.Mode == config.ModeOnline,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Analyzer:       analyzer,
		Reviewer:       reviewer,
		Extractor:      extractor,
		Catalog:        catalog,
		Feedbacks:      feedbacks,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
