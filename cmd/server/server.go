package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/craftable/errx/errxfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/Abraxas-365/facturamelo/pkg/config"
	"github.com/Abraxas-365/facturamelo/pkg/database"
)

var startTime = time.Now()

func main() {
	// Cargar .env si existe
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configurar logger
	setupLogger(cfg)

	log.Println("🚀 Starting Facturamelo API...")
	log.Printf("📍 Environment: %s", cfg.Server.Environment)
	log.Printf("🗄️  Storage backend: %s", cfg.Storage.Backend)

	// Conectar infraestructura y armar dependencias
	container, cleanup, err := buildContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer cleanup()

	// Verificar credenciales de proveedores externos
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := container.ValidateProviders(ctx); err != nil {
		log.Printf("⚠️  Provider credential validation failed: %v", err)
	} else {
		log.Println("✅ Provider credentials validated")
	}
	cancel()

	// Verificar health de los servicios
	health := container.HealthCheck()
	log.Printf("🏥 Health check: %v", health)

	// Crear aplicación Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Facturamelo API",
		ServerHeader: "Facturamelo",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errxfiber.FiberErrorHandler(),
	})

	// Configurar middleware global
	setupMiddleware(app, cfg)

	// Registrar rutas
	log.Println("🛣️  Setting up routes...")
	setupRoutes(app, container)
	log.Println("✅ Routes configured")

	log.Printf("📋 Registered services: %v", container.GetServiceNames())

	// Iniciar servidor en goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("⏸️  Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Error during server shutdown: %v", err)
	}

	log.Println("👋 Server stopped gracefully")
}

// buildContainer conecta la infraestructura según el backend configurado y
// arma el contenedor
func buildContainer(cfg *config.Config) (*Container, func(), error) {
	// Conectar a Redis (dedup de webhooks)
	log.Println("🔌 Connecting to Redis...")
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("✅ Connected to Redis")

	switch cfg.Storage.Backend {
	case config.StorageBackendMongo:
		log.Println("🔌 Connecting to MongoDB...")
		mongoClient, err := database.NewMongoClient(cfg.Mongo)
		if err != nil {
			database.CloseRedis(redisClient)
			return nil, nil, err
		}
		log.Println("✅ Connected to MongoDB")

		container := NewContainer(cfg, nil, mongoClient, redisClient)
		cleanup := func() {
			container.Cleanup()
			database.CloseMongo(mongoClient)
		}
		return container, cleanup, nil

	default:
		log.Println("🔌 Connecting to PostgreSQL...")
		db, err := database.NewPostgresDB(cfg.Database)
		if err != nil {
			database.CloseRedis(redisClient)
			return nil, nil, err
		}
		log.Println("✅ Connected to PostgreSQL")

		container := NewContainer(cfg, db, nil, redisClient)
		return container, container.Cleanup, nil
	}
}

// setupLogger configura el logger
func setupLogger(cfg *config.Config) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.Server.Environment == "production" {
		log.SetFlags(log.LstdFlags)
	}
}

// setupMiddleware configura los middleware globales
func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Request ID
	app.Use(requestid.New())

	// Logger
	if cfg.Server.Environment != "test" {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
		}))
	}

	// Recover de panics
	app.Use(recover.New())

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: getCorsOrigins(cfg),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Compression
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes configura todas las rutas de la aplicación
func setupRoutes(app *fiber.App, c *Container) {
	// Health check
	app.Get("/health", healthCheckHandler(c))

	// Root endpoint
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":  "Facturamelo API",
			"version":  "1.0.0",
			"status":   "running",
			"uptime":   time.Since(startTime).String(),
			"services": c.GetServiceNames(),
		})
	})

	// =================================================================
	// WEBHOOK ROUTES
	// =================================================================
	c.WhatsAppWebhookRoutes.RegisterRoutes(app)
	log.Println("  ✓ WhatsApp webhook routes registered")

	// =================================================================
	// INVOICE ROUTES
	// =================================================================
	c.InvoiceHandler.RegisterRoutes(app)
	log.Println("  ✓ Invoice routes registered")

	// =================================================================
	// 404 HANDLER
	// =================================================================
	app.Use(func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
			"path":  ctx.Path(),
		})
	})
}

// healthCheckHandler handler de health check
func healthCheckHandler(c *Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		health := c.HealthCheck()

		allHealthy := true
		for _, healthy := range health {
			if !healthy {
				allHealthy = false
				break
			}
		}

		status := "healthy"
		statusCode := fiber.StatusOK

		if !allHealthy {
			status = "degraded"
			statusCode = fiber.StatusServiceUnavailable
		}

		return ctx.Status(statusCode).JSON(fiber.Map{
			"status":    status,
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
			"services":  health,
			"version":   "1.0.0",
		})
	}
}

// getCorsOrigins retorna los orígenes permitidos para CORS
func getCorsOrigins(cfg *config.Config) string {
	// Permite override via variable de entorno (lista separada por comas)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		return origins
	}

	if cfg.Server.Environment == "production" {
		return "https://yourdomain.com"
	}

	return "http://localhost:3000,http://127.0.0.1:3000"
}
