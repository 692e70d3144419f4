package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	CORSOrigins []string

	LogLevel  string // debug|info|warn|error
	LogFormat string // text|json

	RequestTimeout time.Duration
	MaxUploadBytes int64

	PdfToTextPath string

	// Remote issue detection. Without it the built-in rules are used.
	RemoteDetector  bool
	GeminiAPIKey    string
	GeminiModel     string
	DetectorRetries int
	DetectorTimeout time.Duration
}

// LoadDotEnv loads path into the environment when the file exists. Values
// already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000,http://localhost:5173,http://localhost:8080"
	if mode == ModeOnline {
		defOrigins = "https://memoire.mindengage.ai"
	}
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg := Config{
		Mode:            mode,
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		CORSOrigins:     csvOr("CORS_ORIGINS", defOrigins),
		LogLevel:        strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(envOr("LOG_FORMAT", "text")),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_BYTES", 20<<20)),
		PdfToTextPath:   envOr("PDFTOTEXT_PATH", "pdftotext"),
		RemoteDetector:  envBool("REMOTE_DETECTOR", key != "") && key != "",
		GeminiAPIKey:    key,
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		DetectorRetries: envInt("DETECTOR_RETRIES", 2),
	}
	cfg.DetectorTimeout = detectorTimeout(cfg.RequestTimeout)
	return cfg
}

// detectorTimeout bounds the remote detector including its retries. It has
// to end before the request deadline, so it defaults to two thirds of it and
// larger values are capped there.
func detectorTimeout(request time.Duration) time.Duration {
	budget := request * 2 / 3
	d := envDuration("DETECTOR_TIMEOUT", budget)
	if d <= 0 || (request > 0 && d >= request) {
		return budget
	}
	return d
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}

// envDuration accepts Go durations ("45s") or a plain number of seconds.
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
