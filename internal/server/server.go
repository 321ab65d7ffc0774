package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pantry-keeper/internal/config"
	"pantry-keeper/internal/database"
	"pantry-keeper/internal/email"
	custommiddleware "pantry-keeper/internal/middleware"
	"pantry-keeper/internal/report"
	"pantry-keeper/internal/repository"
	"pantry-keeper/internal/service"
	"pantry-keeper/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// tokenPurgeInterval is how often expired refresh tokens are deleted
const tokenPurgeInterval = time.Hour

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client

	userService   service.UserService
	familyService service.FamilyService
	stopJanitor   context.CancelFunc
	janitorDone   chan struct{}
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	router.Get("/health", s.health)

	// Repositories
	sqlDB := db.DB()
	userRepo := repository.NewUserRepository(sqlDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(sqlDB)
	groceryRepo := repository.NewGroceryRepository(sqlDB)
	inventoryRepo := repository.NewInventoryRepository(sqlDB)
	familyRepo := repository.NewFamilyRepository(sqlDB)

	// Services share one aggregator
	aggregator := report.NewAggregator()
	mailer := email.NewClient(cfg.Mail.PostmarkToken, cfg.Mail.From, cfg.Mail.AppBaseURL)
	if !mailer.Configured() {
		logger.Warn("Postmark token not set, invitation emails are disabled")
	}

	s.userService = service.NewUserService(userRepo, refreshTokenRepo, service.AuthConfig{
		JWTSecret:             cfg.JWT.Secret,
		AccessTokenTTL:        cfg.JWT.AccessTokenTTL(),
		RefreshTokenTTL:       cfg.JWT.RefreshTokenTTL(),
		InventoryManagerEmail: cfg.InventoryManagerEmail,
	})
	groceryService := service.NewGroceryService(groceryRepo, inventoryRepo, aggregator)
	inventoryService := service.NewInventoryService(inventoryRepo, aggregator)
	s.familyService = service.NewFamilyService(userRepo, familyRepo, inventoryService, mailer, logger)
	adminService := service.NewAdminService(userRepo, groceryRepo, inventoryRepo, familyRepo)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	authLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate_limit:auth",
	}, logger)

	transport.NewUserHandler(s.userService, logger).RegisterRoutes(router, authMiddleware, authLimiter)
	transport.NewGroceryHandler(groceryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewInventoryHandler(inventoryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewFamilyHandler(s.familyService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewAdminHandler(adminService, logger).RegisterRoutes(router, authMiddleware)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// health reports the database and redis state. Redis being down only
// disables rate limiting, so it does not fail the check.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	dbHealth := s.db.Health()

	redisStatus := "up"
	if err := s.redis.Ping(r.Context()).Err(); err != nil {
		redisStatus = "down"
	}

	status, code := "ok", http.StatusOK
	if dbHealth["status"] != "up" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
		"status":   status,
		"database": dbHealth,
		"redis":    redisStatus,
	})
}

// StartJanitor purges expired refresh tokens and expires stale invitations
// every tokenPurgeInterval until Close is called.
func (s *Server) StartJanitor() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.janitorDone = make(chan struct{})

	go func() {
		defer close(s.janitorDone)

		ticker := time.NewTicker(tokenPurgeInterval)
		defer ticker.Stop()

		for {
			s.purgeExpiredTokens(ctx)
			s.expireInvitations(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Server) purgeExpiredTokens(ctx context.Context) {
	n, err := s.userService.PurgeExpiredTokens(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to purge expired refresh tokens", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("Purged expired refresh tokens", zap.Int64("count", n))
	}
}

func (s *Server) expireInvitations(ctx context.Context) {
	n, err := s.familyService.ExpireStaleInvitations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to expire stale invitations", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("Expired stale invitations", zap.Int64("count", n))
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.stopJanitor != nil {
		s.stopJanitor()
		<-s.janitorDone
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
