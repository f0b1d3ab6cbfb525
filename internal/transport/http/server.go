package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"steadypath/internal/cache"
	"steadypath/internal/config"
	"steadypath/internal/database"
	"steadypath/internal/handler"
	"steadypath/internal/queue"
	"steadypath/internal/redis"
	"steadypath/internal/reminder"
	"steadypath/internal/repository"
	"steadypath/internal/scheduler"
	"steadypath/internal/service"
	"steadypath/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application and blocks until SIGINT/SIGTERM.
func Run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return err
	}

	fcmClient, err := service.NewFCMClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey)
	if err != nil {
		return fmt.Errorf("create fcm client: %w", err)
	}

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create media service: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	polygraphRepo := repository.NewPolygraphRepository(db)
	officerRepo := repository.NewOfficerContactRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reminderRepo := repository.NewReminderPreferenceRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Queue
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	streakCache := cache.NewStreakCache(redisClient.Client)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo)
	journalService := service.NewJournalService(journalRepo, streakCache)
	sessionService := service.NewSessionService(sessionRepo)
	polygraphService := service.NewPolygraphService(polygraphRepo, mediaService)
	officerLogService := service.NewOfficerLogService(officerRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, publisher)
	notificationService := service.NewNotificationService(notificationRepo, deviceTokenRepo)
	reminderSettingsService := service.NewReminderSettingsService(reminderRepo)

	// Background workers draining the notification stream
	workerHandler := worker.NewHandler(userRepo, deviceTokenRepo, notificationRepo, fcmClient)
	manager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}
	defer manager.Stop()

	// Journal reminder dispatch every 15 minutes
	reminderSender := reminder.NewJournalSender(deviceTokenRepo, fcmClient)
	reminderJob := reminder.NewJob(reminderRepo, reminderSender)
	sched := scheduler.NewScheduler(reminderJob)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers and routes
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, mediaService),
		JournalHandler:      handler.NewJournalHandler(journalService),
		SessionHandler:      handler.NewSessionHandler(sessionService, userService),
		PolygraphHandler:    handler.NewPolygraphHandler(polygraphService, mediaService),
		OfficerHandler:      handler.NewOfficerHandler(officerLogService, userService),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		SettingsHandler:     handler.NewSettingsHandler(reminderSettingsService),
		Roles:               userService,
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
