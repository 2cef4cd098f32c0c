package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kelas-go-api/internal/config"
	"github.com/noah-isme/kelas-go-api/internal/database"
	"github.com/noah-isme/kelas-go-api/internal/handler"
	"github.com/noah-isme/kelas-go-api/internal/middleware"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
	"github.com/noah-isme/kelas-go-api/internal/router"
	"github.com/noah-isme/kelas-go-api/internal/scheduler"
	"github.com/noah-isme/kelas-go-api/internal/service"
	cloud "github.com/noah-isme/kelas-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.Module{},
		&models.Resource{},
		&models.Enrollment{},
		&models.Assessment{},
		&models.ActivityLog{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var storage service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = uploader
	} else {
		logger.Warn().Msg("cloudinary credentials missing, resource uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	policy := service.NewAuthorizationPolicy(enrollmentRepo, activityService, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, policy, validate, logger)
	resourceService := service.NewResourceService(resourceRepo, moduleRepo, courseRepo, policy, storage, cfg.ResourceMaxSizeMB, validate, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, courseRepo, enrollmentRepo, policy, notificationService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, policy, validate, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationService.Start(ctx)

	deadlineScheduler := scheduler.New(courseRepo, enrollmentRepo, assessmentRepo, notificationService, scheduler.Config{
		LookAhead: cfg.SchedulerLookAhead,
		Workers:   cfg.SchedulerWorkers,
	}, logger)
	runner := scheduler.NewRunner(deadlineScheduler, scheduler.NewIntervalTicker(cfg.SchedulerInterval), logger)
	go runner.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		ModuleHandler:       handler.NewModuleHandler(moduleService, logger),
		ResourceHandler:     handler.NewResourceHandler(resourceService, logger),
		AssessmentHandler:   handler.NewAssessmentHandler(assessmentService, logger),
		EnrollmentHandler:   handler.NewEnrollmentHandler(enrollmentService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive),
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
