package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/adapters/cache"
	"github.com/zatekoja/teamfeedback/internal/adapters/database"
	"github.com/zatekoja/teamfeedback/internal/adapters/events"
	"github.com/zatekoja/teamfeedback/internal/adapters/security"
	"github.com/zatekoja/teamfeedback/internal/api/handlers"
	"github.com/zatekoja/teamfeedback/internal/api/routes"
	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/redis"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/notifications"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/observability"
	"github.com/zatekoja/teamfeedback/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional: without it dashboards are not cached and no events
	// are published
	var (
		redisClient   *redis.Client
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("continuing without Redis")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}

	// Initialize adapters
	userAdapter := database.NewUserAdapter(pgClient)
	tagAdapter := database.NewTagAdapter(pgClient)
	feedbackAdapter := database.NewFeedbackAdapter(pgClient)
	ackAdapter := database.NewAcknowledgmentAdapter(pgClient)
	requestAdapter := database.NewFeedbackRequestAdapter(pgClient)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	// Initialize services
	identityService := services.NewIdentityService(userAdapter, hasher)
	authService := services.NewAuthService(userAdapter, hasher, tokens)
	tagService := services.NewTagService(tagAdapter)
	feedbackService := services.NewFeedbackService(feedbackAdapter, userAdapter, requestAdapter, tagService)
	ackService := services.NewAcknowledgmentService(ackAdapter, feedbackAdapter)
	requestService := services.NewFeedbackRequestService(requestAdapter, userAdapter)
	dashboardService := services.NewDashboardService(feedbackAdapter, cacheProvider, cfg.Dashboard.CacheTTL)
	dashboardService.SetMetrics(metrics)
	feedbackService.SetDashboardInvalidator(dashboardService)
	ackService.SetDashboardInvalidator(dashboardService)

	if eventBus != nil {
		feedbackService.SetEventBus(eventBus)
		feedbackService.SetMetrics(metrics)
		ackService.SetEventBus(eventBus)
		ackService.SetMetrics(metrics)
		requestService.SetEventBus(eventBus)
		requestService.SetMetrics(metrics)
	}

	// Start event subscribers
	var subscribers []interface{ Stop() }
	if eventBus != nil {
		invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		} else {
			subscribers = append(subscribers, invalidation)
		}

		notifier := newNotifier(cfg.Mail)
		notification := services.NewNotificationService(userAdapter, notifier, eventBus)
		if err := notification.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start notification service")
		} else {
			subscribers = append(subscribers, notification)
		}
	} else {
		log.Warn().Msg("event bus disabled; notifications and cache invalidation are off")
	}

	// Initialize handlers
	checks := map[string]handlers.HealthCheck{"postgres": pgClient.Ping}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}

	router := routes.NewRouter(routes.Handlers{
		Auth:            handlers.NewAuthHandler(authService),
		Users:           handlers.NewUserHandler(identityService),
		Tags:            handlers.NewTagHandler(tagService),
		Feedback:        handlers.NewFeedbackHandler(feedbackService, ackService, identityService),
		FeedbackRequest: handlers.NewFeedbackRequestHandler(requestService),
		Dashboard:       handlers.NewDashboardHandler(dashboardService),
		Health:          handlers.NewHealthHandler(checks),
	}, authService, cfg.App.AllowedOrigins, metrics)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	for _, subscriber := range subscribers {
		subscriber.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}

// newNotifier delivers through Resend when an API key is configured and
// logs notifications otherwise
func newNotifier(cfg config.MailConfig) providers.Notifier {
	if cfg.ResendAPIKey == "" {
		return notifications.LogSender{}
	}
	sender, err := notifications.NewEmailSender(cfg.ResendAPIKey, cfg.From)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to log notifications")
		return notifications.LogSender{}
	}
	return sender
}
