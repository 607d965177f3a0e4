package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	AuthSecret string

	// Remote grader.
	AIAPIKey     string
	AIAPIURL     string // empty uses the client default endpoint
	AIRetries    int    // extra attempts per criterion before fallback; 0 matches legacy behavior
	AITimeout    time.Duration
	GradeSubject string // default subject when a session doesn't name one

	OCRLang string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AIAPIKey:     os.Getenv("AI_API_KEY"),
		AIAPIURL:     os.Getenv("AI_API_URL"),
		AIRetries:    envInt("AI_RETRIES", 0),
		AITimeout:    time.Duration(envInt("AI_TIMEOUT_SEC", 60)) * time.Second,
		GradeSubject: envOr("GRADE_SUBJECT", ""),
		OCRLang:      envOr("OCR_LANG", "eng"),
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
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
