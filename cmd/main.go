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

	adminCancelHoldHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/admin_cancel_hold"
	cancelHoldHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/cancel_hold"
	createHoldHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/create_hold"
	getHoldHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/get_hold"
	getStationHoldsHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/get_station_holds"
	recordDepositHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/record_deposit"
	signAgreementHandler "github.com/m04kA/CTR-HoldService/internal/api/handlers/sign_agreement"
	"github.com/m04kA/CTR-HoldService/internal/api/middleware"
	"github.com/m04kA/CTR-HoldService/internal/config"
	"github.com/m04kA/CTR-HoldService/internal/infra/storage"
	bookingRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/booking"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	agreementsClient "github.com/m04kA/CTR-HoldService/internal/integrations/agreements"
	notifierClient "github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	pricingClient "github.com/m04kA/CTR-HoldService/internal/integrations/pricing"
	holdsService "github.com/m04kA/CTR-HoldService/internal/service/holds"
	holdSweeper "github.com/m04kA/CTR-HoldService/internal/sweeper"
	createHoldUC "github.com/m04kA/CTR-HoldService/internal/usecase/create_hold"
	recordDepositUC "github.com/m04kA/CTR-HoldService/internal/usecase/record_deposit"
	signAgreementUC "github.com/m04kA/CTR-HoldService/internal/usecase/sign_agreement"
	"github.com/m04kA/CTR-HoldService/pkg/dbmetrics"
	"github.com/m04kA/CTR-HoldService/pkg/logger"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
	"github.com/m04kA/CTR-HoldService/pkg/simpletxmanager"
	"github.com/m04kA/CTR-HoldService/pkg/txmanager"
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

	log.Info("Starting CTR-HoldService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Применяем схему
	if err := storage.Migrate(context.Background(), db); err != nil {
		log.Fatal("Failed to apply database schema: %v", err)
	}
	log.Info("Database schema is up to date")

	// Инициализируем интеграционных клиентов
	pricing := pricingClient.NewClient(
		cfg.PricingService.URL,
		time.Duration(cfg.PricingService.Timeout)*time.Second,
		log,
	)
	agreements := agreementsClient.NewClient(
		cfg.AgreementService.URL,
		time.Duration(cfg.AgreementService.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PricingService=%s, AgreementService=%s, NotificationService=%s)",
		cfg.PricingService.URL, cfg.AgreementService.URL, cfg.NotificationService.URL)

	// Тайминги lifecycle hold'ов
	timing := cfg.Holds.Timing()
	log.Info("Hold timing: signing_window=%s, payment_window=%s, warning_lead=%s, token_ttl=%s",
		timing.SigningWindow, timing.PaymentWindow, timing.WarningLead, timing.TokenTTL)

	// Инициализируем репозитории (с метриками или без)
	var (
		holdRepository    *holdRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		holdRepository = holdRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		holdRepository = holdRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	holdSvc := holdsService.NewService(
		holdRepository,
		notifier,
		timing,
		&holdsService.RealTimeProvider{},
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createHoldUseCase := createHoldUC.NewUseCase(
		holdRepository,
		pricing,
		timing,
		metricsCollector,
		log,
	)
	signAgreementUseCase := signAgreementUC.NewUseCase(
		holdRepository,
		agreements,
		timing,
		log,
	)
	recordDepositUseCase := recordDepositUC.NewUseCase(
		holdRepository,
		bookingRepository,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем sweeper дедлайнов
	sweeper := holdSweeper.New(
		holdRepository,
		notifier,
		timing,
		cfg.Sweeper.Interval(),
		cfg.Sweeper.BatchSize,
		&holdSweeper.RealTimeProvider{},
		metricsCollector,
		log,
	)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweeperCtx)

	// Инициализируем handlers
	getHold := getHoldHandler.NewHandler(holdSvc, log)
	signAgreement := signAgreementHandler.NewHandler(signAgreementUseCase, log)
	recordDeposit := recordDepositHandler.NewHandler(recordDepositUseCase, log)
	cancelHold := cancelHoldHandler.NewHandler(holdSvc, log)
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	getStationHolds := getStationHoldsHandler.NewHandler(holdSvc, log)
	adminCancelHold := adminCancelHoldHandler.NewHandler(holdSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (доступ по непредсказуемому токену hold'а)
	// ============================================================

	// Получение состояния hold'а
	api.HandleFunc("/holds/{token}", getHold.Handle).Methods(http.MethodGet)

	// Подписание договора
	api.HandleFunc("/holds/{token}/sign", signAgreement.Handle).Methods(http.MethodPost)

	// Фиксация депозита
	api.HandleFunc("/holds/{token}/deposit", recordDeposit.Handle).Methods(http.MethodPost)

	// Отмена hold'а клиентом
	api.HandleFunc("/holds/{token}/cancel", cancelHold.Handle).Methods(http.MethodPost)

	// ============================================================
	// INTERNAL ROUTES (требуют X-Admin-ID header)
	// ============================================================

	internal := api.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.AdminAuth)

	// Создание hold'а (вызывается сервисом бронирования после выбора слота)
	internal.HandleFunc("/holds", createHold.Handle).Methods(http.MethodPost)

	// Список hold'ов станции
	internal.HandleFunc("/stations/{stationId}/holds", getStationHolds.Handle).Methods(http.MethodGet)

	// Отмена hold'а администратором
	internal.HandleFunc("/holds/{holdId}/cancel", adminCancelHold.Handle).Methods(http.MethodPatch)

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

	// Останавливаем sweeper
	stopSweeper()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
