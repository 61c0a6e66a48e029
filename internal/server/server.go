package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	httpSwagger "github.com/swaggo/http-swagger"

	"agrobooks-api/internal/config"
	"agrobooks-api/internal/db"
	"agrobooks-api/internal/handlers"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/pool"
	"agrobooks-api/internal/repository"
	"agrobooks-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	app        *fiber.App
	config     *config.Config
	workerPool *pool.WorkerPool
	bufferPool *pool.BufferPool
	database   *sqlx.DB

	storeService      *services.StoreService
	attachmentService *services.AttachmentService

	uploadHandler     *handlers.UploadHandler
	bookHandler       *handlers.BookHandler
	audioBookHandler  *handlers.AudioBookHandler
	curriculumHandler *handlers.CurriculumHandler
	profileHandler    *handlers.ProfileHandler
	purchaseHandler   *handlers.PurchaseHandler
	metaHandler       *handlers.MetaHandler
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Load()
	}

	return &Server{
		config: cfg,
	}
}

// Initialize sets up all server components
func (s *Server) Initialize() error {
	log.Printf("Initializing buffer pool with %d buffers of %d bytes", s.config.BufferPoolSize, s.config.BufferSize)
	s.bufferPool = pool.NewBufferPool(s.config.BufferPoolSize, s.config.BufferSize)

	log.Printf("Initializing worker pool with %d workers", s.config.MaxWorkers)
	s.workerPool = pool.NewWorkerPool(s.config.MaxWorkers)
	if err := s.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	storeService, err := services.NewStoreService(s.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage service: %w", err)
	}
	s.storeService = storeService

	normalizer := payload.NewNormalizer(s.bufferPool, int64(s.config.BodyLimit))
	s.attachmentService = services.NewAttachmentService(s.storeService, normalizer, s.workerPool)

	s.uploadHandler = handlers.NewUploadHandler(s.storeService, normalizer, s.config.RequestTimeout)

	var dbPinger func(context.Context) error
	if s.config.Database.Enabled() {
		if err := s.initializeDatabase(); err != nil {
			return err
		}
		dbPinger = s.database.PingContext
	} else {
		log.Println("Database disabled: catalog endpoints will not be registered")
	}

	s.metaHandler = handlers.NewMetaHandler(readAPIVersion(), s.storeService, dbPinger)

	s.app = fiber.New(fiber.Config{
		ServerHeader:  "AgroBooks",
		StrictRouting: false,
		CaseSensitive: true,
		AppName:       "AgroBooks Content API",
		BodyLimit:     s.config.BodyLimit,
		// Multipart parsing is deferred to the handlers so the upload
		// classifier sees the raw body even when the declared content
		// type is wrong.
		DisablePreParseMultipartForm: true,
		ReadTimeout:   s.config.ReadTimeout,
		WriteTimeout:  s.config.WriteTimeout,
		IdleTimeout:   s.config.IdleTimeout,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":     message,
				"timestamp": time.Now().Unix(),
			})
		},
	})

	s.setupMiddleware()
	s.setupRoutes()

	return nil
}

// initializeDatabase connects, migrates and wires the catalog handlers.
func (s *Server) initializeDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.database = database

	if s.config.Database.Migrate {
		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Println("Database migrations applied")
	}

	authors := repository.NewAuthorRepository(database)
	categories := repository.NewCategoryRepository(database)
	books := repository.NewBookRepository(database)
	audioBooks := repository.NewAudioBookRepository(database)
	curricula := repository.NewCurriculumRepository(database)
	profiles := repository.NewProfileRepository(database)
	purchases := repository.NewPurchaseRepository(database)

	storage := s.config.Storage
	timeout := s.config.RequestTimeout

	s.bookHandler = handlers.NewBookHandler(books, authors, categories, s.attachmentService, storage.BooksBucket, timeout)
	s.audioBookHandler = handlers.NewAudioBookHandler(audioBooks, authors, categories, s.attachmentService, storage.AudioBucket, timeout)
	s.curriculumHandler = handlers.NewCurriculumHandler(curricula, s.attachmentService, storage.BooksBucket, timeout)
	s.profileHandler = handlers.NewProfileHandler(profiles, s.attachmentService, storage.AvatarsBucket, timeout)
	s.purchaseHandler = handlers.NewPurchaseHandler(purchases, timeout)

	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:       86400,
	}))

	s.app.Use(recover.New())
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.app.Get("/api", s.metaHandler.APIInfo)
	s.app.Get("/health", s.metaHandler.Health)
	s.app.Get("/stats", s.metaHandler.Stats(s.GetStats))

	// Unified upload endpoint
	s.app.Post("/upload", s.uploadHandler.Upload)

	// Catalog endpoints (database-backed)
	if s.bookHandler != nil {
		s.app.Post("/books", s.bookHandler.Create)
		s.app.Get("/books", s.bookHandler.List)
		s.app.Get("/books/:id", s.bookHandler.Get)
		s.app.Put("/books/:id", s.bookHandler.Update)

		s.app.Post("/audio-books", s.audioBookHandler.Create)
		s.app.Get("/audio-books", s.audioBookHandler.List)
		s.app.Get("/audio-books/:id", s.audioBookHandler.Get)
		s.app.Put("/audio-books/:id", s.audioBookHandler.Update)

		s.app.Post("/curriculum", s.curriculumHandler.Create)
		s.app.Get("/curriculum", s.curriculumHandler.List)
		s.app.Get("/curriculum/:id", s.curriculumHandler.Get)
		s.app.Put("/curriculum/:id", s.curriculumHandler.Update)

		s.app.Get("/profiles/:id", s.profileHandler.Get)
		s.app.Put("/profiles/:id", s.profileHandler.Update)

		s.app.Post("/purchases", s.purchaseHandler.Create)
		s.app.Get("/purchases", s.purchaseHandler.List)
	}

	if s.config.EnableSwagger {
		s.registerSwaggerRoutes()
	}

	// 404 handler
	s.app.Use(func(c fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}

func (s *Server) registerSwaggerRoutes() {
	swaggerFiles.Handler.Prefix = "/swagger"
	s.app.Get("/swagger", func(c fiber.Ctx) error {
		return c.Redirect().Status(fiber.StatusTemporaryRedirect).To("/swagger/index.html")
	})
	s.app.Get("/swagger/*", adaptor.HTTPHandler(httpSwagger.Handler(
		httpSwagger.InstanceName("swagger"),
		httpSwagger.DeepLinking(true),
	)))
}

// App exposes the Fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the server
func (s *Server) Start() error {
	s.printStartupInfo()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%s", s.config.Port)
		if err := s.app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	<-shutdownCh

	log.Println("Shutting down server...")
	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
		log.Println("Worker pool stopped")
	}

	if s.database != nil {
		if err := s.database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// printStartupInfo prints server configuration
func (s *Server) printStartupInfo() {
	log.Println("========================================")
	log.Println("AgroBooks Content API")
	log.Println("========================================")
	log.Printf("Port:            %s", s.config.Port)
	log.Printf("Workers:         %d", s.config.MaxWorkers)
	log.Printf("Buffer Pool:     %d x %dKB", s.config.BufferPoolSize, s.config.BufferSize/1024)
	log.Printf("Request Timeout: %s", s.config.RequestTimeout)
	log.Printf("Body Limit:      %dMB", s.config.BodyLimit/1024/1024)
	log.Printf("Storage:         %s", s.config.Storage.Provider)
	log.Printf("Database:        %t", s.config.Database.Enabled())
	log.Printf("CPU Cores:       %d", runtime.NumCPU())
	log.Printf("Go Version:      %s", runtime.Version())
	log.Printf("Swagger:         %t", s.config.EnableSwagger)
	log.Println("========================================")
}

func readAPIVersion() string {
	const fallbackVersion = "1.0.0"
	data, err := os.ReadFile("VERSION")
	if err != nil {
		return fallbackVersion
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return fallbackVersion
	}

	return version
}

// GetStats returns server statistics
func (s *Server) GetStats() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]any{
		"worker_pool": s.workerPool.Stats(),
		"buffer_pool": s.bufferPool.Stats(),
		"memory": map[string]any{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}
