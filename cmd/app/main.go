package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutoring-platform/internal/config"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/infra/adapters/assistant"
	"tutoring-platform/internal/infra/adapters/calendar"
	payAdapters "tutoring-platform/internal/infra/adapters/payment"
	pg "tutoring-platform/internal/infra/db/postgres"
	"tutoring-platform/internal/infra/logging"
	"tutoring-platform/internal/infra/metrics"
	red "tutoring-platform/internal/infra/redis"
	"tutoring-platform/internal/infra/sched"
	"tutoring-platform/internal/infra/web"
	"tutoring-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, relaxed sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL)
	profileRepo := pg.NewProfileRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	classRepo := pg.NewClassRepo(pool)
	availabilityRepo := pg.NewAvailabilityRepo(pool)
	resourceRepo := pg.NewResourceRepo(pool)

	// ---- Adapters ----
	gateway, err := payAdapters.NewMercadoPagoGateway(cfg.Payment.MercadoPago.AccessToken, cfg.Payment.MercadoPago.BaseURL, cfg.Server.SiteURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("mercadopago gateway init failed")
	}

	scheduler, err := calendar.NewGoogleMeetScheduler(cfg.Calendar)
	if err != nil {
		logger.Fatal().Err(err).Msg("google meet scheduler init failed")
	}

	// Assistant backends: Groq first, Gemini as fallback.
	var backends []adapter.AssistantAdapter
	if cfg.Assistant.GroqKey != "" {
		groq, err := assistant.NewGroqAdapter(cfg.Assistant.GroqKey, cfg.Assistant.GroqBaseURL, cfg.Assistant.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("groq adapter init failed")
		}
		backends = append(backends, groq)
	}
	if cfg.Assistant.GeminiKey != "" {
		gemini, err := assistant.NewGeminiAdapter(ctx, cfg.Assistant.GeminiKey, cfg.Assistant.GeminiModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter init failed")
		}
		backends = append(backends, gemini)
	}
	assistantAdapter := assistant.NewMultiAdapter(logger, backends...)

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, planRepo, profileRepo, subRepo, gateway, txManager, logger)
	bookingUC := usecase.NewBookingUseCase(profileRepo, classRepo, availabilityRepo, scheduler, logger)
	planUC := usecase.NewPlanUseCase(planRepo)
	resourceUC := usecase.NewResourceUseCase(resourceRepo)
	chatUC := usecase.NewChatUseCase(assistantAdapter, logger)

	// ---- HTTP server ----
	authn := web.NewAuthenticator(cfg.Auth.JWTSecret, profileRepo)
	srv := web.NewServer(paymentUC, bookingUC, planUC, resourceUC, chatUC, authn, rateLimiter, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Stale payment reconciler ----
	reconciler := sched.NewPaymentReconciler(paymentUC, paymentRepo, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
