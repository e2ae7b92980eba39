package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/cancel_booking"
	checkSlotLockHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/check_slot_lock"
	completeBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking"
	getOwnerBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_owner_bookings"
	getPaymentQRHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_payment_qr"
	getRevenueStatsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_revenue_stats"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_user_bookings"
	lockSlotsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/lock_slots"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/config"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	paymentRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/payment"
	pricingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/pricing"
	slotRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/notifier"
	userServiceClient "github.com/m04kA/SMC-CourtBooking/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	pricingService "github.com/m04kA/SMC-CourtBooking/internal/service/pricing"
	slotsService "github.com/m04kA/SMC-CourtBooking/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	lockSlotsUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/lock_slots"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CourtBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	// Методы *metrics.Metrics безопасны для nil, поэтому при выключенных метриках передаётся nil
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithRetries(cfg.Database.SerializationRetries),
		txmanager.WithRetryObserver(metricsCollector),
	)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	directoryRepository := directoryRepo.NewRepository(wrappedDB)
	pricingRepository := pricingRepo.NewRepository(wrappedDB)

	// Дополнительные возможности сервиса бронирований
	bookingOpts := []bookingsService.Option{bookingsService.WithMetrics(metricsCollector)}

	// Уведомления владельцу: userservice + RabbitMQ
	var publisher *notifier.Publisher
	if cfg.AMQP.Enabled {
		publisher, err = notifier.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ, owner notifications disabled: %v", err)
		} else {
			userClient := userServiceClient.NewClient(
				cfg.UserService.URL,
				time.Duration(cfg.UserService.Timeout)*time.Second,
				log,
			)
			bookingOpts = append(bookingOpts, bookingsService.WithNotifier(userClient, publisher))
			log.Info("Owner notifications enabled (exchange=%s, routing_key=%s, UserService=%s)",
				cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, cfg.UserService.URL)
		}
	}

	// Кэш статистики выручки в Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("Failed to connect to Redis, revenue cache disabled: %v", err)
		} else {
			bookingOpts = append(bookingOpts, bookingsService.WithRevenueCache(cache.New(redisClient, cfg.Cache.TTL())))
			log.Info("Revenue cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Cache.TTL())
		}
	}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(pricingRepository, domain.GapBoundary(cfg.Pricing.GapBoundary), log)
	slotSvc := slotsService.NewService(slotRepository, directoryRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		slotRepository,
		directoryRepository,
		txMgr,
		cfg.Booking.PageSize,
		log,
		bookingOpts...,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		directoryRepository,
		slotRepository,
		bookingRepository,
		paymentRepository,
		pricingSvc,
		txMgr,
		metricsCollector,
		location,
		log,
	)
	lockSlotsUseCase := lockSlotsUC.NewUseCase(
		directoryRepository,
		slotRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getPaymentQR := getPaymentQRHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getRevenueStats := getRevenueStatsHandler.NewHandler(bookingSvc, log)
	lockSlots := lockSlotsHandler.NewHandler(lockSlotsUseCase, log)
	checkSlotLock := checkSlotLockHandler.NewHandler(slotSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка, занят ли диапазон корта
	api.HandleFunc("/courts/{courtId}/lock", checkSlotLock.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT, либо X-User-ID при allow_header_identity)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, cfg.Auth.AllowHeaderIdentity, log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment-qr", getPaymentQR.Handle).Methods(http.MethodGet)

	// История бронирований пользователя
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Для владельцев площадок ---
	protected.HandleFunc("/owners/me/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/me/revenue", getRevenueStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/fields/{fieldId}/locks", lockSlots.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений, запущенных до остановки
	bookingSvc.Wait()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close RabbitMQ publisher: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
