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

	"github.com/gradehub/gradehub-api/internal/config"
	"github.com/gradehub/gradehub-api/internal/database"
	"github.com/gradehub/gradehub-api/internal/handler"
	"github.com/gradehub/gradehub-api/internal/middleware"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
	"github.com/gradehub/gradehub-api/internal/router"
	"github.com/gradehub/gradehub-api/internal/service"
	"github.com/gradehub/gradehub-api/pkg/ai"
	cloud "github.com/gradehub/gradehub-api/pkg/cloudinary"
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
		&models.Student{},
		&models.Faculty{},
		&models.Assignment{},
		&models.Submission{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizSubmission{},
		&models.Marks{},
		&models.TimetableEntry{},
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
	} else {
		logger.Warn().Msg("redis not configured, marks cache disabled")
	}

	publisher := service.NewNopGradePublisher()
	if cfg.NATSURL != "" {
		natsConn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		publisher = service.NewNATSGradePublisher(natsConn, logger)
	} else {
		logger.Warn().Msg("nats not configured, grade events disabled")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var generator ai.Generator
	if cfg.OpenAIAPIKey != "" {
		openaiGen, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create question generator: %v", err)
		}
		generator = openaiGen
	} else {
		logger.Warn().Msg("openai not configured, question generation uses templates")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewQuizSubmissionRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	authService := service.NewAuthService(studentRepo, facultyRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	studentService := service.NewStudentService(studentRepo, validate, uploader, logger)
	facultyService := service.NewFacultyService(facultyRepo, validate, uploader, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, uploader, logger)
	marksService := service.NewMarksService(marksRepo, redisClient, cfg.MarksCacheTTL, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, marksService, publisher, validate, uploader, logger)
	quizService := service.NewQuizService(quizRepo, validate, generator, logger)
	attemptService := service.NewQuizAttemptService(attemptRepo, quizRepo, studentRepo, marksService, publisher, validate, logger)
	timetableService := service.NewTimetableService(timetableRepo, facultyRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
		FacultyHandler:     handler.NewFacultyHandler(facultyService, logger),
		AssignmentHandler:  handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		QuizHandler:        handler.NewQuizHandler(quizService, logger),
		QuizAttemptHandler: handler.NewQuizAttemptHandler(attemptService, logger),
		MarksHandler:       handler.NewMarksHandler(marksService, logger),
		TimetableHandler:   handler.NewTimetableHandler(timetableService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
