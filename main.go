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

	"spa-backend/config"
	"spa-backend/controllers"
	"spa-backend/events"
	"spa-backend/routes"
	"spa-backend/services"
	"spa-backend/store"
	"spa-backend/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// repository is everything the engine needs from persistence.
type repository interface {
	services.ClientFinder
	services.StaffFinder
	services.ReservationStore
	services.PaymentFinder
	services.ReminderLogStore
	store.CatalogStore
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(settings, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(settings config.Settings, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, publisher, err := openRepository(settings, logger)
	if err != nil {
		return err
	}

	var catalog store.CatalogStore = repo
	if settings.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		defer rdb.Close()
		catalog = store.NewCachedCatalog(repo, rdb, settings.CatalogCacheTTL, logger.Named("catalog-cache"))
		logger.Info("catalog cache enabled", zap.String("redis", settings.RedisAddr))
	}

	var messenger services.Messenger
	if settings.Twilio.Enabled() {
		messenger = services.NewTwilioMessenger(settings.Twilio)
	} else {
		logger.Warn("twilio not configured, confirmations and reminders will be skipped")
	}

	bookings := services.NewBookingService(repo, repo, catalog, repo, services.BookingConfig{
		MinLeadTime: settings.MinLeadTime,
		Discount:    settings.Discount(),
	}, logger.Named("bookings"))
	if messenger != nil {
		bookings.WithMessenger(messenger)
	}

	reminders := services.NewReminderService(repo, repo, messenger, nil, logger.Named("reminders"))
	if err := reminders.StartScheduler(settings.ReminderCron); err != nil {
		return err
	}
	defer reminders.StopScheduler()

	if publisher != nil {
		go publisher.Run(ctx)
	}

	handlers := routes.Handlers{
		Reservations: controllers.NewReservationController(bookings),
		Staff:        controllers.NewStaffController(services.NewStaffDirectory(repo, config.ServiceRoles(), logger.Named("staff"))),
		Services:     controllers.NewServiceController(catalog),
		Invoices:     controllers.NewInvoiceController(services.NewInvoiceService(repo, repo)),
		Reports:      controllers.NewReportController(services.NewReportService(repo), nil),
		Reminders:    controllers.NewReminderController(reminders),
	}
	if st, ok := repo.(*store.Store); ok {
		handlers.Ping = st.Ping
	}
	r := routes.SetupRouter(settings, handlers, logger.Named("http"))
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRepository connects to Postgres when a database URL is configured and falls back to an
// in-memory store seeded with the default catalog otherwise. The outbox publisher needs Postgres.
func openRepository(settings config.Settings, logger *zap.Logger) (repository, *events.Publisher, error) {
	if settings.DatabaseURL == "" {
		logger.Warn("no database configured, using in-memory store")
		mem := memory.New()
		for _, service := range config.DefaultCatalog() {
			mem.AddService(service)
		}
		return mem, nil, nil
	}

	db, err := config.ConnectDB(settings.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}

	policy := store.DefaultRetryPolicy()
	policy.MaxTries = settings.DBRetryMaxTries
	st := store.New(db, policy, logger.Named("store"))
	if err := st.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	publisher := events.NewPublisher(st, logger.Named("outbox"), events.PublisherConfig{
		Brokers:   settings.KafkaBrokers,
		PollEvery: settings.OutboxPollInterval,
	})
	return st, publisher, nil
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
