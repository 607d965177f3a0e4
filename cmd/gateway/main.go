package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	api "github.com/mind-engage/fairgrade/internal/api/http"
	"github.com/mind-engage/fairgrade/internal/audit"
	auth "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/config"
	"github.com/mind-engage/fairgrade/internal/db"
	"github.com/mind-engage/fairgrade/internal/grading"
	"github.com/mind-engage/fairgrade/internal/grading/genai"
	"github.com/mind-engage/fairgrade/internal/grading/ocr"
	"github.com/mind-engage/fairgrade/internal/rbac"
	"github.com/mind-engage/fairgrade/internal/rubric"
	"github.com/mind-engage/fairgrade/internal/session"
	"github.com/mind-engage/fairgrade/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := httplog.NewLogger("fairgrade", httplog.Options{
		LogLevel:       slog.LevelInfo,
		Concise:        true,
		RequestHeaders: false,
	})

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	sessions := session.NewSQLStore(dbh)
	rubrics := rubric.NewSQLStore(dbh)
	events := audit.NewEventRepo(dbh)

	// --- Grading pipeline ---
	genOpts := []genai.Option{
		genai.WithHTTPClient(&http.Client{Timeout: cfg.AITimeout}),
	}
	if cfg.AIAPIURL != "" {
		genOpts = append(genOpts, genai.WithBaseURL(cfg.AIAPIURL))
	}
	gen := genai.New(cfg.AIAPIKey, genOpts...)
	grader := grading.New(gen, grading.WithRetries(cfg.AIRetries))

	engine := ocr.NewEngine(func() (ocr.Extractor, error) {
		return ocr.NewTesseract(cfg.OCRLang), nil
	})

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Timeout(5 * time.Minute)) // grading batches are slow

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// assets routes (protected)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs, sessions)
		})
	})

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		pr.With(rbac.Require("grade:run")).
			Post("/grade", api.GradeBatchHandler(api.GradingDeps{
				Grader:         grader,
				Sessions:       sessions,
				Rubrics:        rubrics,
				Blobs:          bs,
				Events:         events,
				DefaultSubject: cfg.GradeSubject,
			}))

		pr.With(rbac.Require("ocr:extract")).
			Post("/ocr/extract", api.ExtractTextHandler(engine))

		pr.With(rbac.Require("grade:run")).
			Get("/ai/status", api.AIStatusHandler(gen))

		pr.With(rbac.Require("rubric:create")).
			Post("/rubrics", api.SaveRubricHandler(rubrics))
		pr.With(rbac.Require("rubric:view-own")).
			Get("/rubrics", api.ListRubricsHandler(rubrics))
		pr.With(rbac.Require("rubric:view-own")).
			Get("/rubrics/{rubricID}", api.GetRubricHandler(rubrics))
		pr.With(rbac.Require("rubric:delete-own")).
			Delete("/rubrics/{rubricID}", api.DeleteRubricHandler(rubrics))

		pr.With(rbac.Require("session:view-own")).
			Get("/sessions", api.ListSessionsHandler(sessions))
		pr.With(rbac.Require("session:view-own")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(sessions))
		pr.With(rbac.Require("session:view-own")).
			Get("/sessions/{sessionID}/students/{studentID}/suggestions", api.StudentSuggestionsHandler(sessions))
		pr.With(rbac.Require("session:delete-own")).
			Delete("/sessions/{sessionID}", api.DeleteSessionHandler(sessions, bs, events))

		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
