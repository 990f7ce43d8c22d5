package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/create_appointment"
	getAgendaHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/get_agenda"
	getAppointmentHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/get_client_appointments"
	getPetShopSettingsHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/get_petshop_settings"
	updateLoyaltyPlanHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/update_loyalty_plan"
	updateWorkingHoursHandler "github.com/m04kA/SMC-PetShopService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-PetShopService/internal/api/middleware"
	"github.com/m04kA/SMC-PetShopService/internal/config"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/internal/events"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	loyaltyRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/loyalty"
	paymentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/payment"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	serviceRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/service"
	subscriptionRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-PetShopService/internal/jobs"
	"github.com/m04kA/SMC-PetShopService/internal/payment"
	appointmentsService "github.com/m04kA/SMC-PetShopService/internal/service/appointments"
	petshopsService "github.com/m04kA/SMC-PetShopService/internal/service/petshops"
	createAppointmentUC "github.com/m04kA/SMC-PetShopService/internal/usecase/create_appointment"
	creditPointsUC "github.com/m04kA/SMC-PetShopService/internal/usecase/credit_points"
	getAvailableSlotsUC "github.com/m04kA/SMC-PetShopService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-PetShopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetShopService/pkg/logger"
	"github.com/m04kA/SMC-PetShopService/pkg/metrics"
	"github.com/m04kA/SMC-PetShopService/pkg/mq"
	"github.com/m04kA/SMC-PetShopService/pkg/txmanager"
)

// appointmentPublisher события о записях, общие для создания и отмены
type appointmentPublisher interface {
	AppointmentConfirmed(ctx context.Context, appt *domain.Appointment) error
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment) error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("PETSHOP_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-PetShopService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
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

	// Без метрик обертка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	petShopRepository := petshopRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	subscriptionRepository := subscriptionRepo.NewRepository(wrappedDB)
	loyaltyRepository := loyaltyRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)

	// Реестр стратегий оплаты
	payments := payment.NewRegistry(subscriptionRepository, loyaltyRepository)

	// Брокер сообщений
	var publisher appointmentPublisher = events.NoopPublisher{}
	var consumer *mq.Consumer

	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()
		publisher = events.NewPublisher(mqPublisher)

		consumer, err = mq.NewConsumer(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.PaymentExchange,
			cfg.RabbitMQ.PaymentQueue,
			[]string{events.RKPaymentSucceeded},
			cfg.RabbitMQ.Prefetch,
		)
		if err != nil {
			log.Fatal("Failed to create payment consumer: %v", err)
		}
		defer consumer.Close()

		log.Info("RabbitMQ connected (exchange=%s, payment_queue=%s)", cfg.RabbitMQ.Exchange, cfg.RabbitMQ.PaymentQueue)
	} else {
		log.Warn("RabbitMQ disabled: events are not published, loyalty points are not credited")
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		petShopRepository,
		txMgr,
		publisher,
		log,
	)
	petShopSvc := petshopsService.NewService(petShopRepository, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		petShopRepository,
		serviceRepository,
		payments,
		txMgr,
		publisher,
		metricsCollector,
		createAppointmentUC.Options{
			MinNotice:          cfg.Scheduling.MinBookingNotice(),
			AdvanceBookingDays: cfg.Scheduling.AdvanceBookingDays,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		petShopRepository,
		serviceRepository,
		getAvailableSlotsUC.Options{
			SlotStepMinutes:    cfg.Scheduling.SlotStepMinutes,
			MinNotice:          cfg.Scheduling.MinBookingNotice(),
			AdvanceBookingDays: cfg.Scheduling.AdvanceBookingDays,
		},
		log,
	)

	creditPointsUseCase := creditPointsUC.NewUseCase(
		paymentRepository,
		appointmentRepository,
		petShopRepository,
		loyaltyRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Фоновые задачи
	scheduler := jobs.NewScheduler(log)
	if cfg.Jobs.CompletionSpec != "" {
		completionJob := jobs.NewCompletionJob(
			appointmentRepository,
			time.Duration(cfg.Jobs.CompletionTimeout)*time.Second,
			log,
		)
		if err := scheduler.Add("complete-finished-appointments", cfg.Jobs.CompletionSpec, completionJob); err != nil {
			log.Fatal("Failed to schedule completion job: %v", err)
		}
	}
	scheduler.Start()

	// Потребитель событий об оплате
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if consumer != nil {
		paymentConsumer := events.NewPaymentConsumer(consumer, creditPointsUseCase, log)
		go func() {
			if err := paymentConsumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Payment consumer stopped: %v", err)
			}
		}()
	}

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAgenda := getAgendaHandler.NewHandler(appointmentSvc, log)
	getPetShopSettings := getPetShopSettingsHandler.NewHandler(petShopSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(petShopSvc, log)
	updateLoyaltyPlan := updateLoyaltyPlanHandler.NewHandler(petShopSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты магазина на дату
	api.HandleFunc("/petshops/{petShopId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочие часы и программа лояльности
	api.HandleFunc("/petshops/{petShopId}/settings", getPetShopSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/me/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление магазином (для владельца) ---
	protected.HandleFunc("/petshops/{petShopId}/agenda", getAgenda.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/petshops/{petShopId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/petshops/{petShopId}/loyalty-plan", updateLoyaltyPlan.Handle).Methods(http.MethodPut)

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

	// Перестаем принимать события и ждем текущие задачи
	stopConsumer()
	scheduler.Stop(shutdownCtx)

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
