package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/articles"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/assessment"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/audit"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/auth"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/dashboard"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/notifications"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/team"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/config"
	cryptoutil "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/crypto"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/db"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/email"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/jobs"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/metrics"
	platformredis "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/redis"
	articleshandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/articles"
	assessmenthandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/assessment"
	audithandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/audit"
	authhandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/auth"
	dashboardhandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/dashboard"
	notificationshandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/notifications"
	teamhandler "github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/handlers/team"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	collector := metrics.New()

	// Drafts survive restarts through redis when configured; the in-memory
	// fallback keeps single-node development working without it.
	var draftStore assessment.DraftStore
	if cfg.RedisURL != "" {
		client, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connect failed", "err", err)
			os.Exit(1)
		}
		defer client.Close()
		draftStore = assessment.NewRedisDraftStore(client, cfg.DraftTTL)
	} else {
		slog.Warn("REDIS_URL not set, draft auto-save is process-local")
		draftStore = assessment.NewInMemoryDraftStore()
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		slog.Error("encryption key invalid", "err", err)
		os.Exit(1)
	}

	mailer := email.New(cfg)
	notifService := notifications.New(notifications.NewStore(pool), mailer)

	manager := assessment.NewManager()
	assessmentService := assessment.NewService(assessment.NewStore(pool), draftStore, manager, notifService)

	flusher := assessment.NewFlusher(manager, draftStore, cfg.AutosaveInterval, func(count int) {
		collector.AutosaveFlushes.Add(float64(count))
	})
	go flusher.Run(ctx)

	jobService := jobs.New(pool, cfg, manager)
	jobService.Start(ctx)

	teamService := team.NewService(team.NewStore(pool))
	authService := auth.NewService(auth.NewStore(pool))
	auditService := audit.New(pool)
	dashboardService := dashboard.NewService(dashboard.NewStore(pool))
	articlesService := articles.New(pool)
	idempotency := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute/6+1, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authH := authhandler.NewHandler(authService, cfg.JWTSecret, cryptoSvc)
		authH.Mailer = mailer
		authH.EmailFrom = cfg.EmailFrom
		authH.Audit = auditService
		authH.RegisterRoutes(r)

		assessmentH := assessmenthandler.NewHandler(assessmentService)
		assessmentH.Audit = auditService
		assessmentH.Metrics = collector
		assessmentH.Idempotency = idempotency
		assessmentH.UploadDir = cfg.UploadDir
		assessmentH.MaxUploadBytes = cfg.MaxUploadBytes

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermAssessmentsEdit, teamService))
			assessmentH.RegisterDraftRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermAssessmentsView, teamService))
			assessmentH.RegisterAssessmentRoutes(r)
		})

		teamH := teamhandler.NewHandler(teamService)
		teamH.Audit = auditService
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermTeamsManage, teamService))
			teamH.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermDashboardView, teamService))
			dashboardhandler.NewHandler(dashboardService).RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermArticlesView, teamService))
			articleshandler.NewHandler(articlesService).RegisterRoutes(r)
		})

		audithandler.NewHandler(auditService, teamService).RegisterRoutes(r)
		notificationshandler.NewHandler(notifService, teamService).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown failed", "err", err)
		}
	}()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
