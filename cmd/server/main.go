package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"acapulcoWs/internal/config"
	customersusecase "acapulcoWs/internal/modules/customers/application/usecase"
	customersinfra "acapulcoWs/internal/modules/customers/infrastructure"
	customerstransport "acapulcoWs/internal/modules/customers/interface"
	menuport "acapulcoWs/internal/modules/menu/application/port"
	menuusecase "acapulcoWs/internal/modules/menu/application/usecase"
	menudomain "acapulcoWs/internal/modules/menu/domain"
	menuinfra "acapulcoWs/internal/modules/menu/infrastructure"
	menutransport "acapulcoWs/internal/modules/menu/interface"
	orderingusecase "acapulcoWs/internal/modules/ordering/application/usecase"
	orderingdomain "acapulcoWs/internal/modules/ordering/domain"
	orderingtransport "acapulcoWs/internal/modules/ordering/interface"
	ordersport "acapulcoWs/internal/modules/orders/application/port"
	ordersusecase "acapulcoWs/internal/modules/orders/application/usecase"
	ordersdomain "acapulcoWs/internal/modules/orders/domain"
	ordersinfra "acapulcoWs/internal/modules/orders/infrastructure"
	orderstransport "acapulcoWs/internal/modules/orders/interface"
	"acapulcoWs/internal/modules/realtime/application/handler"
	rtusecase "acapulcoWs/internal/modules/realtime/application/usecase"
	rtdomain "acapulcoWs/internal/modules/realtime/domain"
	"acapulcoWs/internal/modules/realtime/infrastructure"
	transport "acapulcoWs/internal/modules/realtime/interface"
	"acapulcoWs/internal/platform/broker"
	"acapulcoWs/internal/platform/database"
	"acapulcoWs/internal/platform/storage"
	"acapulcoWs/internal/shared/auth"
	"acapulcoWs/internal/shared/logging"
)

const (
	sessionSweepInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Open(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel, cfg); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg *config.Config) error {
	loc := menudomain.LoadLocation(cfg.Ordering.Location)
	slog.Info("restaurant time zone", slog.String("location", loc.String()))

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	hub := infrastructure.NewHub()
	registry := infrastructure.NewHandlerRegistry()
	broadcastUC := rtusecase.NewBroadcastUseCase(hub)

	// Order events go through kafka when brokers are configured so every
	// replica sees them; a single instance dispatches them in process.
	var publisher ordersport.EventPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := ordersinfra.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		slog.Info("order events via kafka", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.OrdersTopic), slog.String("group", cfg.Kafka.GroupID))
	} else {
		publisher = ordersinfra.NewLocalPublisher(registry)
		slog.Info("order events dispatched in process")
	}

	var archive ordersport.TicketArchive
	bucket, err := storage.NewBucket(ctx, cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrMissingBucket):
		slog.Info("ticket archive disabled: no bucket configured")
	case err != nil:
		return fmt.Errorf("ticket archive: %w", err)
	default:
		archive = bucket
	}

	// Orders
	orderRepo := ordersinfra.NewPostgresRepository(db)
	settingsUC := ordersusecase.NewSettingsUseCase(ordersinfra.NewSettingsRepository(db))
	submitUC := ordersusecase.NewSubmitUseCase(orderRepo, publisher, loc)
	triageUC := ordersusecase.NewTriageUseCase(orderRepo, publisher, archive, loc)
	exportUC := ordersusecase.NewExportUseCase(triageUC, ordersinfra.NewXLSXExporter(loc))
	feedUC := ordersusecase.NewFeedUseCase(triageUC, hub, cfg.Admin.PollInterval)

	orderActions := []string{rtdomain.ActionCreated, rtdomain.ActionUpdated}
	registry.Register(handler.NewEntityStreamHandler(ordersdomain.Entity, orderActions, broadcastUC, feedUC))
	registry.SetFallback(&handler.BroadcastHandler{UseCase: broadcastUC})

	// Menu
	menuRepo := menuinfra.NewPostgresRepository(db)
	var catalogReader menuport.CatalogReader = menuRepo
	if cfg.Catalog.Source == config.CatalogREST {
		catalogReader = menuinfra.NewRESTCatalog(cfg.REST.BaseURL, cfg.REST.APIKey, cfg.REST.Timeout, nil)
		slog.Info("storefront catalog served by rest backend", slog.String("baseUrl", cfg.REST.BaseURL))
	}
	menuUC := menuusecase.NewDailyMenuUseCase(menuRepo)

	// Storefront
	orderingUC := orderingusecase.NewOrderingUseCase(
		orderingusecase.NewSessionStore(),
		menuusecase.NewStorefrontCatalog(catalogReader),
		submitUC,
		settingsUC,
		orderingusecase.OrderingConfig{
			ExtraPrices: orderingdomain.ExtraPrices{Half: cfg.Pricing.SideHalf, Full: cfg.Pricing.SideFull},
			Today:       func() string { return menudomain.BusinessDay(time.Now(), loc) },
		},
	)

	// Customer accounts
	accountUC := customersusecase.NewAccountUseCase(customersinfra.NewPostgresRepository(db), orderRepo)

	validator, err := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)
	if err != nil {
		return fmt.Errorf("jwt validator: %w", err)
	}
	adminRoles := cfg.Security.AdminRoles

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.Server.AllowedOrigins}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "clients": hub.Len()})
	})

	api := e.Group("/api")
	orderingtransport.NewStorefrontHandler(orderingUC, orderingdomain.DefaultBusinessHours).Register(api, auth.Identify(validator))
	customerstransport.NewAccountHandler(accountUC).Register(api.Group("/me", auth.RequireRole(validator)))
	ordersHandler := orderstransport.NewAdminHandler(triageUC, settingsUC, exportUC)
	ordersHandler.RegisterPublic(api)

	admin := api.Group("/admin", auth.RequireRole(validator, adminRoles...))
	ordersHandler.Register(admin)
	menutransport.NewMenuHandler(menuUC).Register(admin)

	// Database webhooks push order rows inserted outside this service.
	api.POST("/realtime/broadcast", transport.NewBroadcastHTTPHandler(registry), auth.RequireAPIKeyOrRole(cfg.Security.BroadcastKey, validator, adminRoles...))

	e.GET("/ws/admin/orders", transport.NewEntityWebsocketHandler(hub, feedUC, validator, transport.EntityStreamConfig{
		Entity:         ordersdomain.Entity,
		AllowedActions: orderActions,
		Roles:          adminRoles,
	}))
	e.GET("/ws/notifications", transport.NewNotificationsWebsocketHandler(hub, validator, adminRoles...))

	// Background loops
	go feedUC.Run(ctx)
	go sweepSessions(ctx, orderingUC.Sessions(), cfg.Ordering.SessionIdleTTL)
	consumers := broker.StartKafkaConsumers(ctx, registry, kafkaBrokers(cfg.Kafka), cfg.Kafka.GroupID, []string{cfg.Kafka.OrdersTopic})

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		cancel()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
	cancel()
	consumers.Wait()
	return nil
}

// kafkaBrokers returns no brokers when kafka is not in use, which keeps the
// consumers off.
func kafkaBrokers(cfg config.KafkaConfig) []string {
	if !cfg.Enabled() {
		return nil
	}
	return cfg.Brokers
}

func sweepSessions(ctx context.Context, sessions *orderingusecase.SessionStore, maxIdle time.Duration) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(maxIdle); removed > 0 {
				slog.Info("idle ordering sessions removed", slog.Int("removed", removed), slog.Int("remaining", sessions.Len()))
			}
		}
	}
}
