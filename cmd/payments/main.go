package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/zeduno/paygate/internal/pkg/config"
	"github.com/zeduno/paygate/internal/pkg/database"
	"github.com/zeduno/paygate/internal/pkg/health"
	httppkg "github.com/zeduno/paygate/internal/pkg/http"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/middleware"
	"github.com/zeduno/paygate/internal/pkg/nats"
	nrpkg "github.com/zeduno/paygate/internal/pkg/newrelic"
	"github.com/zeduno/paygate/internal/pkg/nsq"
	"github.com/zeduno/paygate/internal/pkg/server"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments/gateway"
	"github.com/zeduno/paygate/services/payments/gateway/provider"
	"github.com/zeduno/paygate/services/payments/handler"
	"github.com/zeduno/paygate/services/payments/repository"
	"github.com/zeduno/paygate/services/payments/usecase"
)

func main() {
	appName := "payments-service"
	configPath := "config/payments.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	// Initialize NATS client
	natsClient, err := nats.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// NSQ is an optional second sink for status events
	var nsqPublisher gateway.NSQPublisher
	var nsqProducer *nsq.Producer
	if configs.NSQ.Address != "" {
		nsqProducer, err = nsq.NewProducer(configs.NSQ.Address)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NSQ", logger.Err(err))
		}
		nsqPublisher = nsqProducer
	}

	// Gateway routing and provider adapters
	routing, err := config.LoadGatewayRouting(configs.Payments.RoutingFile, configs.Payments.DefaultProvider)
	if err != nil {
		zapLogger.Fatal("Failed to load gateway routing", logger.Err(err))
	}

	gatewayTimeout := time.Duration(configs.Payments.GatewayTimeout) * time.Second
	gatewayClient := httppkg.NewEnhancedClient(zapLogger, gatewayTimeout)

	darajaCallback := ""
	if configs.Payments.CallbackBaseURL != "" {
		darajaCallback = configs.Payments.CallbackBaseURL + "/api/v1/mpesa/direct/callback"
	}

	registry := provider.NewRegistry(routing,
		provider.NewZed(configs.Zed, gatewayClient),
		provider.NewDaraja(configs.Daraja, gatewayClient, darajaCallback),
		provider.NewMidtrans(configs.Midtrans),
		provider.NewCash(),
	)

	// Initialize repositories
	paymentRepo := repository.NewPaymentRepository(configs, postgresClient.GetDB())
	callbackDedupe := repository.NewCallbackDedupe(redisClient,
		time.Duration(configs.Payments.CallbackDedupeTTL)*time.Second)

	// Initialize gateways
	orderServiceClient := httppkg.NewAPIKeyClient(
		httppkg.NewEnhancedClient(zapLogger, 10*time.Second),
		"order-service",
		configs.Services.OrderServiceURL,
		configs.APIKey.OrderService,
	)
	orderGW := gateway.NewOrderClient(orderServiceClient)
	broadcaster := gateway.NewPaymentBroadcaster(natsClient, nsqPublisher, configs.NSQ.Topic, configs.Payments.NotifyBuffer)

	// Initialize usecase
	paymentUC, err := usecase.NewPaymentUC(configs, paymentRepo, callbackDedupe, registry, orderGW, broadcaster)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment use case", logger.Err(err))
	}

	// Initialize handlers
	paymentHandler := handler.NewHandler(paymentUC, natsClient, configs, nrApp)

	if err := paymentHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()

	// Add middlewares (panic recovery should be first)
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(middleware.RequestID())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Health endpoints
	healthService := health.NewService()
	healthService.AddChecker("postgres", health.NewPingChecker(postgresClient))
	healthService.AddChecker("redis", health.NewPingChecker(redisClient))
	healthService.AddChecker("nats", health.NewConnectionChecker("nats", natsClient))
	healthService.SetBreakerStats(gatewayClient.BreakerStats)
	health.RegisterHealthEndpoints(e, appName, healthService)

	// Register service routes
	paymentHandler.RegisterRoutes(e, redisClient.GetClient())

	// Components close in reverse registration order
	components := server.NewShutdownManager(zapLogger)
	components.Register("postgres", func(ctx context.Context) error {
		return postgresClient.Close()
	})
	components.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})
	components.Register("nats", func(ctx context.Context) error {
		natsClient.Close()
		return nil
	})
	if nsqProducer != nil {
		components.Register("nsq", func(ctx context.Context) error {
			nsqProducer.Stop()
			return nil
		})
	}
	components.Register("broadcaster", func(ctx context.Context) error {
		broadcaster.Close()
		return nil
	})
	components.Register("nats-consumers", func(ctx context.Context) error {
		paymentHandler.Close()
		return nil
	})
	if nrApp != nil {
		components.Register("newrelic", func(ctx context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port).
		WithShutdownTimeout(time.Duration(configs.Server.ShutdownTimeout) * time.Second).
		WithComponents(components)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server stopped with errors", logger.Err(err))
	}

	zapLogger.Info("Server exiting gracefully")
}
