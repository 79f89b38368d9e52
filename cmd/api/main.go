package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/odontocare/clinic-api/internal/config"
	"github.com/odontocare/clinic-api/internal/email"
	anamnesisHandler "github.com/odontocare/clinic-api/internal/handler/anamnesis"
	appointmentHandler "github.com/odontocare/clinic-api/internal/handler/appointment"
	attendanceHandler "github.com/odontocare/clinic-api/internal/handler/attendance"
	auditHandler "github.com/odontocare/clinic-api/internal/handler/audit"
	authHandler "github.com/odontocare/clinic-api/internal/handler/auth"
	budgetHandler "github.com/odontocare/clinic-api/internal/handler/budget"
	changefeedHandler "github.com/odontocare/clinic-api/internal/handler/changefeed"
	healthHandler "github.com/odontocare/clinic-api/internal/handler/health"
	invoiceHandler "github.com/odontocare/clinic-api/internal/handler/invoice"
	medicineHandler "github.com/odontocare/clinic-api/internal/handler/medicine"
	patientHandler "github.com/odontocare/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/odontocare/clinic-api/internal/handler/prescription"
	"github.com/odontocare/clinic-api/internal/middleware"
	"github.com/odontocare/clinic-api/internal/repository/postgres"
	"github.com/odontocare/clinic-api/internal/router"
	anamnesisService "github.com/odontocare/clinic-api/internal/service/anamnesis"
	appointmentService "github.com/odontocare/clinic-api/internal/service/appointment"
	attendanceService "github.com/odontocare/clinic-api/internal/service/attendance"
	auditService "github.com/odontocare/clinic-api/internal/service/audit"
	authService "github.com/odontocare/clinic-api/internal/service/auth"
	budgetService "github.com/odontocare/clinic-api/internal/service/budget"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	invoiceService "github.com/odontocare/clinic-api/internal/service/invoice"
	medicineService "github.com/odontocare/clinic-api/internal/service/medicine"
	patientService "github.com/odontocare/clinic-api/internal/service/patient"
	prescriptionService "github.com/odontocare/clinic-api/internal/service/prescription"
	"github.com/odontocare/clinic-api/pkg/auth"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/messaging/redis"
	"github.com/odontocare/clinic-api/pkg/metrics"
	"github.com/odontocare/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("clinic", "api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go appMetrics.WatchStoreConnections(ctx, func() int { return db.Stats().OpenConnections }, 15*time.Second)

	brokerLogger := log.With().Str("component", "broker").Logger()
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	anamnesisRepo := postgres.NewAnamnesisRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Shared services
	auditSvc := auditService.NewService(auditRepo)
	feedSvc := changefeed.NewService(outboxRepo, appLogger)

	// The feed mirror tracks the latest observed version of every record;
	// locally staged writes show up before their feed echo arrives.
	follower := changefeed.NewFollower(broker, appLogger)
	feedSvc.Mirror(follower)
	if err := follower.Start(ctx, changefeed.Collections()...); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to the change feed")
	}
	jwtSvc := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshExpiryHours)*time.Hour,
	)
	hasher := security.NewBcryptHasher(12)
	emailSvc := email.NewService(cfg.SMTP)

	// Domain services
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, emailSvc, auditSvc, appLogger)
	patientSvc := patientService.NewService(patientRepo, feedSvc, auditSvc)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, feedSvc, auditSvc, emailSvc, appLogger)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, feedSvc, auditSvc, appMetrics)
	medicineSvc := medicineService.NewService(medicineRepo, feedSvc, auditSvc)
	budgetSvc := budgetService.NewService(budgetRepo, feedSvc, auditSvc, appMetrics)
	anamnesisSvc := anamnesisService.NewService(anamnesisRepo, feedSvc, auditSvc)
	invoiceSvc := invoiceService.NewService(invoiceRepo, patientRepo, feedSvc, auditSvc)
	attendanceSvc := attendanceService.NewService(attendanceRepo, documentRepo, feedSvc, auditSvc)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	handlers := router.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Patient:      patientHandler.NewHandler(patientSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Prescription: prescriptionHandler.NewHandler(prescriptionSvc, medicineSvc, patientRepo),
		Budget:       budgetHandler.NewHandler(budgetSvc, patientRepo),
		Medicine:     medicineHandler.NewHandler(medicineSvc),
		Anamnesis:    anamnesisHandler.NewHandler(anamnesisSvc),
		Invoice:      invoiceHandler.NewHandler(invoiceSvc),
		Attendance:   attendanceHandler.NewHandler(attendanceSvc),
		Audit:        auditHandler.NewHandler(auditSvc),
		Changes:      changefeedHandler.NewHandler(follower),
		Health:       healthHandler.NewHandler(db),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       corsConfig,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
