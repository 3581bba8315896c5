package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/filetypes"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/obs"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/sharestore"
	"docvault/internal/worker"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging. DEBUG forces verbose logs in any environment.
	logLevel := slog.LevelInfo
	if cfg.Debug || cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token service: the server issues its own HS256 tokens; an external
	// JWKS verifier can replace verification when JWKS_URL is set.
	tokenService, err := auth.NewLocalTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	var verifier auth.TokenVerifier = tokenService
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	dirRepo := postgres.NewDirectoryRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	orgRepo := postgres.NewOrganizationRepository(repoConfig)
	deptRepo := postgres.NewDepartmentRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	activityRepo := postgres.NewActivityRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	shareStore, err := sharestore.NewFileStore(cfg.ShareDir, logger)
	if err != nil {
		log.Fatalf("Failed to create share store: %v", err)
	}

	// Background page-count extraction
	extractPool := worker.NewPool(docRepo, worker.PDFPageCounter{}, cfg.ExtractWorkers, cfg.ExtractQueue, logger)
	defer extractPool.Close()

	// Create services
	resolver := service.NewScopeResolver(orgRepo, deptRepo)
	dirService := service.NewDirectoryService(dirRepo, docRepo, resolver, txManager, logger)
	docService := service.NewDocumentService(docRepo, dirRepo, userRepo, resolver, filetypes.Default(), extractPool, logger)
	bulkService := service.NewBulkCoordinator(dirRepo, docRepo, txManager, logger)
	shareService := service.NewShareIssuer(shareStore, docRepo, resolver, logger)
	authService := service.NewAuthService(userRepo, tokenService, logger)

	// Create handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	dirHandler := handler.NewDirectoryHandler(dirService, bulkService, logger)
	docHandler := handler.NewDocumentHandler(docService, bulkService, shareService, cfg.ShareDefaultTTL, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)
	healthHandler := handler.NewHealthHandler(pool)

	logger.Info("services initialized")

	obs.Init()

	// Protected routes (Go 1.22+ enhanced patterns)
	api := http.NewServeMux()

	// Directory routes
	api.HandleFunc("POST /api/dirs", dirHandler.Create)
	api.HandleFunc("GET /api/dirs", dirHandler.List)
	api.HandleFunc("GET /api/dirs/archived", dirHandler.ListArchived)
	api.HandleFunc("GET /api/dirs/trash", dirHandler.ListTrashed)
	api.HandleFunc("GET /api/dirs/{id}", dirHandler.Get)
	api.HandleFunc("PUT /api/dirs/{id}/archive", dirHandler.Archive)
	api.HandleFunc("PUT /api/dirs/{id}/restore", dirHandler.Restore)
	api.HandleFunc("PUT /api/dirs/{id}/trash", dirHandler.Trash)
	api.HandleFunc("DELETE /api/dirs/{id}/permanent", dirHandler.DeletePermanent)
	api.HandleFunc("POST /api/dirs/bulk-archive", dirHandler.BulkArchive)
	api.HandleFunc("POST /api/dirs/bulk-trash", dirHandler.BulkTrash)
	api.HandleFunc("POST /api/dirs/bulk-restore", dirHandler.BulkRestore)
	api.HandleFunc("DELETE /api/dirs/bulk-permanent", dirHandler.BulkDeletePermanent)

	// Document routes
	api.HandleFunc("POST /api/documents", docHandler.Upload)
	api.HandleFunc("GET /api/documents", docHandler.List)
	api.HandleFunc("GET /api/documents/archived", docHandler.ListArchived)
	api.HandleFunc("GET /api/documents/trash", docHandler.ListTrashed)
	api.HandleFunc("GET /api/documents/expired", docHandler.ListExpired)
	api.HandleFunc("GET /api/documents/expiring-soon", docHandler.ListExpiringSoon)
	api.HandleFunc("POST /api/documents/auto-archive-expired", docHandler.AutoArchiveExpired)
	api.HandleFunc("GET /api/documents/{id}/info", docHandler.GetInfo)
	api.HandleFunc("GET /api/documents/{id}/download", docHandler.Download)
	api.HandleFunc("PUT /api/documents/{id}/archive", docHandler.Archive)
	api.HandleFunc("PUT /api/documents/{id}/restore", docHandler.Restore)
	api.HandleFunc("PUT /api/documents/{id}/trash", docHandler.Trash)
	api.HandleFunc("DELETE /api/documents/{id}/permanent", docHandler.DeletePermanent)
	api.HandleFunc("POST /api/documents/bulk-archive", docHandler.BulkArchive)
	api.HandleFunc("POST /api/documents/bulk-trash", docHandler.BulkTrash)
	api.HandleFunc("POST /api/documents/bulk-restore", docHandler.BulkRestore)
	api.HandleFunc("DELETE /api/documents/bulk-permanent", docHandler.BulkDeletePermanent)
	api.HandleFunc("POST /api/documents/{id}/share", docHandler.Share)
	api.HandleFunc("DELETE /api/shared/{token}/revoke", shareHandler.Revoke)

	authMW := middleware.Auth(verifier, logger)
	logMW := middleware.RequestLog(activityRepo, logger)

	// Root mux: public endpoints plus the protected subtree. The share
	// info/download endpoints are public; the token is the authorization.
	root := http.NewServeMux()
	root.Handle("GET /health", http.HandlerFunc(healthHandler.Check))
	root.Handle("GET /metrics", obs.Handler())
	root.Handle("POST /api/auth/login", logMW(http.HandlerFunc(authHandler.Login)))
	root.Handle("GET /api/shared/{token}/info", logMW(http.HandlerFunc(shareHandler.Info)))
	root.Handle("GET /api/shared/{token}/download", logMW(http.HandlerFunc(shareHandler.Download)))
	root.Handle("/api/", authMW(logMW(api)))

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → metrics → rate limit → recovery → routes
	var h http.Handler = root
	h = middleware.Recovery(logger)(h)
	h = middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(h)
	h = obs.Instrument(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Serve until interrupted, then drain
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logger.Error("shutdown not clean", "error", err)
	}
}
