package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/AnthoniusHendriyanto/clinic-service/config"
	"github.com/AnthoniusHendriyanto/clinic-service/db"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/handler"
	repo "github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/repository/postgres"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/logging"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/security/ratelimit"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	recorder, err := audit.NewFileRecorder(cfg.AuditLogPath, logger)
	if err != nil {
		log.Fatalf("audit recorder init failed: %v", err)
	}
	defer recorder.Close()

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer dbPool.Close()

	userRepo := repo.NewUserRepository(dbPool)
	sessionRepo := repo.NewSessionRepository(dbPool)
	patientRepo := repo.NewPatientRepository(dbPool)
	appointmentRepo := repo.NewAppointmentRepository(dbPool)
	employeeRepo := repo.NewEmployeeRepository(dbPool)
	recordRepo := repo.NewRecordRepository(dbPool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	authService := service.NewAuthService(userRepo, sessionRepo, tokenService, recorder, m, logger, cfg)
	patientService := service.NewPatientService(patientRepo, recorder, logger)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, recorder, logger)
	employeeService := service.NewEmployeeService(employeeRepo, recorder, logger)
	recordService := service.NewRecordService(recordRepo, patientRepo, recorder, logger)

	limiter := ratelimit.NewLimiter(cfg.RateLimitMaxRequests,
		time.Duration(cfg.RateLimitWindowSec)*time.Second)

	app := fiber.New()
	handler.RegisterRoutes(app, handler.Deps{
		Auth:         handler.NewAuthHandler(authService),
		Patients:     handler.NewPatientHandler(patientService),
		Appointments: handler.NewAppointmentHandler(appointmentService),
		Employees:    handler.NewEmployeeHandler(employeeService),
		Records:      handler.NewRecordHandler(recordService),
		Tokens:       tokenService,
		Limiter:      limiter,
		Metrics:      m,
		Audit:        recorder,
		Registry:     registry,
	})

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
