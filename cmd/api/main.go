package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/nomavia/guestlink/internal/alert"
	"github.com/nomavia/guestlink/internal/http/handlers"
	httpmw "github.com/nomavia/guestlink/internal/http/middleware"
	"github.com/nomavia/guestlink/internal/hub"
	"github.com/nomavia/guestlink/internal/notify"
	"github.com/nomavia/guestlink/internal/platform/mailer"
	"github.com/nomavia/guestlink/internal/platform/translate"
	"github.com/nomavia/guestlink/internal/repo/postgres"
	"github.com/nomavia/guestlink/internal/service"
	"github.com/nomavia/guestlink/internal/ws"
	"github.com/nomavia/guestlink/pkg/config"
	"github.com/nomavia/guestlink/pkg/database"
	"github.com/nomavia/guestlink/pkg/events"
	"github.com/nomavia/guestlink/pkg/logger"
	mw "github.com/nomavia/guestlink/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Redis backs the write-endpoint rate limiter
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Initialize repositories
	lodgingRepo := postgres.NewLodgingRepository(pool)
	operatorRepo := postgres.NewOperatorRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	assistanceRepo := postgres.NewAssistanceRepository(pool)

	// Platform pieces
	detector := alert.NewKeywordDetector(cfg.Alert.Keywords)

	var translator translate.Translator = translate.Noop{}
	if cfg.Translate.Enabled {
		translator = translate.NewClient(cfg.Translate.URL, cfg.Translate.Timeout)
	}

	var mailService mailer.Service
	if cfg.Email.DevMode {
		mailService = mailer.NewDevMailer()
	} else {
		mailService = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Real-time hub
	sessionHub := hub.New()

	// Initialize services
	accessService := service.NewAccessService(lodgingRepo, operatorRepo, cfg.Access.SuperAdminCode)
	conversationService := service.NewConversationService(
		conversationRepo, lodgingRepo, detector, translator, sessionHub, eventBus)
	assistanceService := service.NewAssistanceService(assistanceRepo, sessionHub, eventBus)

	// Alert notification consumer
	notifier := notify.New(eventBus, mailService, cfg.NATS.Queue, cfg.Email.AlertTo)
	if err := notifier.Start(); err != nil {
		logger.Error("Failed to start alert notifier", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	h := handlers.New(accessService, conversationService, assistanceService)
	wsServer := ws.NewServer(sessionHub, assistanceService)

	writeLimiter := httpmw.NewRateLimiter(redisClient, httpmw.RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
		KeyFunc:  httpmw.ClientIPKeyFunc,
	}).Middleware()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("guestlink-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/check-code/{code}", h.CheckCode)

		r.Route("/conversations", func(r chi.Router) {
			r.With(writeLimiter).Post("/", h.PostConversation)
			r.Get("/{code}", h.ListConversation)
			r.Get("/{code}/pdf", h.ExportConversationPDF)
		})

		r.Route("/assistance", func(r chi.Router) {
			r.Get("/", h.ListAssistance)
			r.With(writeLimiter).Post("/", h.PostAssistance)
			r.With(writeLimiter).Post("/reponse", h.PostAssistanceResponse)
			r.Patch("/lu", h.MarkAssistanceRead)
			r.Get("/non-lus/{code}/{role}", h.CountUnreadAssistance)
			r.Get("/{code}", h.ListAssistanceByCode)
		})
	})

	r.Get("/ws", wsServer.HandleWebSocket)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting guestlink API", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down guestlink API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Guestlink API error", "error", err)
		os.Exit(1)
	}
}
