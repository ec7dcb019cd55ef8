package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"ticket-sales/config"
	"ticket-sales/internal/handlers"
	"ticket-sales/internal/services"
	"ticket-sales/internal/services/gateway"
	"ticket-sales/internal/services/gateway/paystack"
	"ticket-sales/monitoring"
	"ticket-sales/utils"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	"github.com/pocketbase/pocketbase"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	var notifier services.Notifier = services.NopNotifier{}
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		notifier = services.NewPubNubNotifier(pubnub.NewPubNub(pnConfig))
	} else {
		slog.Warn("pubnub keys not configured, payment notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize payment gateway
	gw, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	breaker := utils.NewCircuitBreaker(string(gw.Provider()), cfg.BreakerFailureMax, cfg.BreakerResetTimeout)

	// Initialize services
	store := services.NewPBStore(app, cfg.QRSigningSecret)
	sessions := services.NewPaymentSessionCache(redisClient, cfg.PaymentSessionTTL)
	paymentService := services.NewPaymentService(store, store, store, gw, breaker, sessions, notifier)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(app, paymentService, sessions)
	eventHandler := handlers.NewEventHandler(app, store)
	ticketHandler := handlers.NewTicketHandler(app, store)
	userHandler := handlers.NewUserHandler(app)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Expose Prometheus metrics on a separate port
	if cfg.EnableMetrics {
		go serveMetrics(ctx, cfg.MetricsPort)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Payment endpoints
		e.Router.POST("/api/payments/pay", paymentHandler.Pay)
		e.Router.POST("/api/payments/verify/{reference}", paymentHandler.Verify)
		e.Router.GET("/api/payments/{reference}/status", paymentHandler.Status)

		// Event endpoints
		e.Router.POST("/api/events", eventHandler.Create)
		e.Router.GET("/api/events", eventHandler.List)
		e.Router.GET("/api/events/{eventId}", eventHandler.Get)

		// Ticket endpoints
		e.Router.GET("/api/tickets/{ticketId}", ticketHandler.Get)
		e.Router.POST("/api/tickets/{ticketId}/use", ticketHandler.Use)

		// User endpoints
		e.Router.GET("/api/users/me", userHandler.Me)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// buildGateway creates the configured payment gateway, falling back to the
// scripted in-memory gateway when no Paystack credentials are present so
// local development works without an account.
func buildGateway(cfg *config.Config) (gateway.Gateway, error) {
	provider := gateway.Provider(cfg.PaymentProvider)

	if provider == gateway.ProviderPaystack && cfg.PaystackSecretKey == "" {
		slog.Warn("paystack secret key not configured, using fake payment gateway")
		provider = gateway.ProviderFake
	}

	factory := gateway.NewFactory()
	switch provider {
	case gateway.ProviderPaystack:
		return factory.Create(provider, &paystack.Config{
			SecretKey:   cfg.PaystackSecretKey,
			BaseURL:     cfg.PaystackBaseURL,
			CallbackURL: cfg.PaystackCallbackURL,
		})
	default:
		return factory.Create(provider, nil)
	}
}

func serveMetrics(ctx context.Context, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics server listening on :%s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server failed", "error", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
