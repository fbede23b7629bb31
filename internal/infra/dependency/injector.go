// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/application/usecase/auth"
	"github.com/diet-tracker/backend/internal/application/usecase/coach"
	"github.com/diet-tracker/backend/internal/application/usecase/entry"
	"github.com/diet-tracker/backend/internal/application/usecase/goal"
	"github.com/diet-tracker/backend/internal/application/usecase/profile"
	"github.com/diet-tracker/backend/internal/infra/server/router"
	"github.com/diet-tracker/backend/internal/integration/adapters"
	"github.com/diet-tracker/backend/internal/integration/email"
	"github.com/diet-tracker/backend/internal/integration/email/templates"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/diet-tracker/backend/internal/integration/export"
	"github.com/diet-tracker/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	Store  *Store
	Redis  *redis.Client
	Router *router.Router
	// Worker is nil when mail is sent synchronously or the worker is disabled.
	Worker *email.Worker
}

// NewInjector opens the configured backends and wires every use case and controller.
func NewInjector(ctx context.Context, cfg *config.Config) (*Injector, error) {
	store, err := OpenStore(ctx, &cfg.Storage, cfg.Storage.Mode)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = store.DataStore.Close()
			return nil, err
		}
	}

	inj, err := Wire(cfg, store, redisClient)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = store.DataStore.Close()
		return nil, err
	}
	return inj, nil
}

// Wire builds the application on top of an opened store. redisClient may be nil
// unless the store has no GORM handle.
func Wire(cfg *config.Config, store *Store, redisClient *redis.Client) (*Injector, error) {
	inj := &Injector{
		Config: cfg,
		Store:  store,
		Redis:  redisClient,
	}

	dataStore := store.DataStore

	// Session state lives in Redis when available, otherwise next to the data
	var tokenRepo adapter.TokenRepository
	switch {
	case redisClient != nil:
		tokenRepo = adapters.NewRedisTokenRepository(redisClient)
	case store.DB != nil:
		tokenRepo = persistence.NewTokenRepository(store.DB)
	default:
		return nil, fmt.Errorf("%s storage needs redis for session state", store.Mode)
	}

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)
	resetTokenService := adapters.NewPasswordResetTokenService(tokenRepo)
	coachService := adapters.NewGeminiCoach(cfg.AI.GeminiAPIKey, cfg.AI.Model)
	exporter := export.NewXLSXExporter()

	emailService, err := inj.newEmailService(cfg)
	if err != nil {
		return nil, err
	}

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(dataStore, passwordService, tokenService, emailService, cfg.Email.AppBaseURL)
	loginUseCase := auth.NewLoginUserUseCase(dataStore, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	forgotPasswordUseCase := auth.NewForgotPasswordUseCase(dataStore, resetTokenService, emailService, cfg.Email.AppBaseURL)
	resetPasswordUseCase := auth.NewResetPasswordUseCase(dataStore, passwordService, resetTokenService, tokenService)
	deleteAccountUseCase := auth.NewDeleteAccountUseCase(dataStore, passwordService, tokenService)

	// Create profile use cases
	getProfileUseCase := profile.NewGetProfileUseCase(dataStore)
	updateProfileUseCase := profile.NewUpdateProfileUseCase(dataStore)

	// Create entry use cases
	listEntriesUseCase := entry.NewListEntriesUseCase(dataStore)
	saveEntryUseCase := entry.NewSaveEntryUseCase(dataStore)
	deleteEntryUseCase := entry.NewDeleteEntryUseCase(dataStore)
	exportEntriesUseCase := entry.NewExportEntriesUseCase(dataStore, exporter)

	// Create goal use cases
	getGoalUseCase := goal.NewGetGoalUseCase(dataStore)
	saveGoalUseCase := goal.NewSaveGoalUseCase(dataStore)

	// Create coach use cases
	parseMealUseCase := coach.NewParseMealUseCase(coachService)
	chatUseCase := coach.NewChatUseCase(dataStore, coachService)

	// Create controllers
	healthController := controller.NewHealthController(dataStore.Ping, string(cfg.Storage.Mode))

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		forgotPasswordUseCase,
		resetPasswordUseCase,
	)

	userController := controller.NewUserController(
		getProfileUseCase,
		updateProfileUseCase,
		deleteAccountUseCase,
	)

	entryController := controller.NewEntryController(
		listEntriesUseCase,
		saveEntryUseCase,
		deleteEntryUseCase,
		exportEntriesUseCase,
	)

	goalController := controller.NewGoalController(getGoalUseCase, saveGoalUseCase)
	aiController := controller.NewAIController(parseMealUseCase, chatUseCase)

	// Create middleware
	var rateLimitStore middleware.RateLimitStore = middleware.NewMemoryRateLimitStore()
	if redisClient != nil {
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient)
	}
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	maxAttempts := 5
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		maxAttempts = 1000
	}
	loginRateLimiter := middleware.NewRateLimiterWithConfig(rateLimitStore, maxAttempts, 1*time.Minute)
	loginRateLimiter.SetEnabled(cfg.Server.RateLimitEnabled)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		authController,
		userController,
		entryController,
		goalController,
		aiController,
		loginRateLimiter,
		authMiddleware,
	)

	return inj, nil
}

// newEmailService picks queued delivery for GORM backends and direct delivery otherwise.
func (inj *Injector) newEmailService(cfg *config.Config) (adapter.EmailService, error) {
	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Warn("RESEND_API_KEY not set, emails will only be logged")
		sender = email.NewMockEmailSender()
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	if inj.Store.DB == nil {
		return email.NewDirectService(sender, renderer), nil
	}

	queue := persistence.NewEmailQueueRepository(inj.Store.DB)
	if cfg.Email.WorkerEnabled {
		inj.Worker = email.NewWorker(queue, sender, renderer, email.WorkerConfig{
			PollInterval:  cfg.Email.PollInterval,
			BatchSize:     cfg.Email.BatchSize,
			RetentionDays: cfg.Email.RetentionDays,
		})
	}
	return email.NewQueuedService(queue), nil
}

// Close releases Redis and the data store.
func (inj *Injector) Close() {
	if inj.Redis != nil {
		if err := inj.Redis.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
	if err := inj.Store.DataStore.Close(); err != nil {
		slog.Error("Failed to close data store", "error", err)
	}
}

// NewRedisClient connects to the configured Redis instance.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Redis connection established", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
