package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ai-interviewer/internal/config"
	"ai-interviewer/internal/handlers"
	"ai-interviewer/internal/middleware"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/retry"
	"ai-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(db)
	answerRepo := repositories.NewAnswerRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the question index
	questionIndex, err := services.NewQuestionIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := questionIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Missing records are permanent, everything else at the storage layer is
	// worth another attempt.
	storageRetry := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     retry.Linear(cfg.Retry.BackoffStep),
		Retryable: func(err error) bool {
			return !errors.Is(err, repositories.ErrNotFound)
		},
	}

	// Initialize services
	prompts := services.NewPromptBuilder()
	resumeParser := services.NewResumeParser()
	rasterizer := services.NewDocumentRasterizer()
	planner := services.NewChunkPlanner(cfg.Extraction.PagesPerChunk)
	extractor := services.NewQuestionExtractor(rasterizer, planner, prompts, geminiService)
	interviewService := services.NewInterviewService(sessionRepo, answerRepo, companyRepo, resumeParser, prompts, geminiService)
	answerService := services.NewAnswerService(sessionRepo, answerRepo, storageService, geminiService, storageRetry)
	analyzerService := services.NewAnalyzerService(sessionRepo, answerRepo, prompts, geminiService, storageRetry)
	companyService := services.NewCompanyService(companyRepo, geminiService, questionIndex)
	reportService := services.NewReportService()
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	ocrHandler := handlers.NewOCRHandler(extractor, cfg.Storage.MaxFileSize)
	sessionHandler := handlers.NewSessionHandler(interviewService, cfg.Storage.MaxFileSize)
	answerHandler := handlers.NewAnswerHandler(answerService, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, interviewService, reportService)
	companyHandler := handlers.NewCompanyHandler(companyService, extractor, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(middleware.Authenticate(cfg.Auth.JWTSecret))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Document extraction
	api.Post("/ocr/extract", middleware.RequireUser(), ocrHandler.HandleExtract)

	// Interview sessions
	api.Post("/sessions", middleware.RequireUser(), sessionHandler.HandleCreate)
	api.Get("/sessions/:id", middleware.RequireUser(), sessionHandler.HandleGet)
	api.Post("/sessions/:id/answers", middleware.RequireUser(), answerHandler.HandleUpload)
	api.Post("/sessions/:id/analyze", middleware.RequireUser(), analyzeHandler.HandleAnalyze)
	api.Get("/sessions/:id/report.pdf", middleware.RequireUser(), analyzeHandler.HandlePDFReport)
	api.Get("/sessions/:id/report.xlsx", middleware.RequireUser(), analyzeHandler.HandleXLSXReport)

	// Company question banks
	api.Get("/companies", middleware.RequireUser(), companyHandler.HandleList)
	api.Get("/companies/:id", middleware.RequireUser(), companyHandler.HandleGet)
	api.Post("/companies", middleware.RequireAdmin(), companyHandler.HandleCreate)
	api.Post("/companies/:id/questions", middleware.RequireAdmin(), companyHandler.HandleAddQuestions)
	api.Post("/companies/:id/questions/import", middleware.RequireAdmin(), companyHandler.HandleImportDocument)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/ocr/extract",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/answers",
				"POST /api/v1/sessions/:id/analyze",
				"GET /api/v1/sessions/:id/report.pdf",
				"GET /api/v1/sessions/:id/report.xlsx",
				"GET /api/v1/companies",
				"POST /api/v1/companies",
				"GET /api/v1/companies/:id",
				"POST /api/v1/companies/:id/questions",
				"POST /api/v1/companies/:id/questions/import",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
