package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolplanner/backend/internal/api"
	"github.com/schoolplanner/backend/internal/auth"
	"github.com/schoolplanner/backend/internal/classes"
	"github.com/schoolplanner/backend/internal/config"
	"github.com/schoolplanner/backend/internal/homework"
	"github.com/schoolplanner/backend/internal/middleware"
	"github.com/schoolplanner/backend/internal/ratelimit"
	"github.com/schoolplanner/backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool, store.TableNames{
		Accounts: cfg.AccountsTable,
		Tokens:   cfg.TokensTable,
		Classes:  cfg.ClassesTable,
		Homework: cfg.HomeworkTable,
	})
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── Rate limiters ────────────────────────────────────────
	// One instance per limited endpoint. With Redis configured the window
	// state is shared across replicas; otherwise it is process-local.
	tokenWindow := time.Duration(cfg.TokenWindowSec) * time.Second
	refreshWindow := time.Duration(cfg.RefreshWindowSec) * time.Second
	var tokenLimiter, refreshLimiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		tokenLimiter = ratelimit.NewRedis(rdb, "auth:token", tokenWindow)
		refreshLimiter = ratelimit.NewRedis(rdb, "auth:refresh", refreshWindow)
	} else {
		tokenLimiter = ratelimit.NewMemory(tokenWindow)
		refreshLimiter = ratelimit.NewMemory(refreshWindow)
	}

	// ── Handlers ─────────────────────────────────────────────
	authService := auth.NewService(pgStore)
	authHandler := auth.NewHandler(authService)
	classHandler := classes.NewHandler(pgStore)
	homeworkHandler := homework.NewHandler(pgStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uptime probe: reports database round-trip time in milliseconds.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if err := pgStore.Ping(r.Context()); err != nil {
			api.Error(w, http.StatusInternalServerError, "server_error", "Internal Server Error")
			return
		}
		api.JSON(w, http.StatusOK, map[string]int64{"ping": time.Since(start).Milliseconds()})
	})

	// Auth routes (public, rate-limited)
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(tokenLimiter)).Get("/token", authHandler.Token)
		r.With(middleware.RateLimit(refreshLimiter)).Get("/refresh", authHandler.Refresh)
	})

	// Class routes (protected)
	r.Route("/classes", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))
		r.Get("/", classHandler.List)
		r.Post("/", classHandler.Create)
		r.Patch("/{id}", classHandler.Patch)
		r.Delete("/{id}", classHandler.Delete)
	})

	// Homework routes (protected)
	r.Route("/homework", func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))
		r.Get("/", homeworkHandler.List)
		r.Post("/", homeworkHandler.Create)
		r.Patch("/{id}", homeworkHandler.Patch)
		r.Delete("/{id}", homeworkHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
