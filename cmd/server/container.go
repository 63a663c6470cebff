package main

import (
	"context"
	"log"

	"github.com/Abraxas-365/craftable/ai/llm"
	"github.com/Abraxas-365/craftable/ai/ocr"
	"github.com/Abraxas-365/craftable/ai/providers/aiopenai"

	"github.com/Abraxas-365/facturamelo/channels"
	"github.com/Abraxas-365/facturamelo/channels/channelsrv"
	"github.com/Abraxas-365/facturamelo/channels/whatsapp"
	"github.com/Abraxas-365/facturamelo/invoice"
	"github.com/Abraxas-365/facturamelo/invoice/invoiceapi"
	"github.com/Abraxas-365/facturamelo/invoice/invoiceengines"
	"github.com/Abraxas-365/facturamelo/invoice/invoiceinfra"
	"github.com/Abraxas-365/facturamelo/invoice/invoicesrv"
	"github.com/Abraxas-365/facturamelo/pkg/config"
	"github.com/Abraxas-365/facturamelo/pkg/database"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container contains all application dependencies
type Container struct {
	// =================================================================
	// CONFIGURATION & INFRASTRUCTURE
	// =================================================================
	Config      *config.Config
	DB          *sqlx.DB
	MongoClient *mongo.Client
	RedisClient *redis.Client

	// =================================================================
	// AI 🤖
	// =================================================================
	LLMClient      *llm.Client
	OCRClient      *ocr.Client
	VisionProvider invoice.VisionProvider
	Extractor      invoice.Extractor

	// =================================================================
	// STORAGE
	// =================================================================
	InvoiceRepo invoice.Repository

	// =================================================================
	// ARCHIVE (optional)
	// =================================================================
	MediaArchiver invoice.MediaArchiver

	// =================================================================
	// CHANNELS 📡
	// =================================================================
	WhatsAppAdapter *whatsapp.WhatsAppAdapter
	Deduper         channels.Deduper
	MessageRouter   channels.MessageRouter

	// =================================================================
	// PIPELINE
	// =================================================================
	InvoicePipeline *invoicesrv.InvoicePipeline
	AmountAuditor   *invoicesrv.AmountAuditor

	// =================================================================
	// API HANDLERS
	// =================================================================
	WhatsAppWebhookHandler *whatsapp.WebhookHandler
	WhatsAppWebhookRoutes  *whatsapp.WebhookRoutes
	InvoiceHandler         *invoiceapi.InvoiceHandler
}

// NewContainer creates a new dependency container. Either db or mongoClient
// is nil depending on the configured storage backend.
func NewContainer(cfg *config.Config, db *sqlx.DB, mongoClient *mongo.Client, redisClient *redis.Client) *Container {
	c := &Container{
		Config:      cfg,
		DB:          db,
		MongoClient: mongoClient,
		RedisClient: redisClient,
	}

	// Initialize dependencies in the correct order
	log.Println("📦 Initializing dependency container...")

	c.initAIComponents()
	c.initStorageComponents()
	c.initArchiveComponents()
	c.initChannelComponents()
	c.initPipelineComponents()
	c.initAuditComponents()

	log.Println("✅ Dependency container initialized successfully")

	return c
}

// =================================================================
// AI INITIALIZATION 🤖
// =================================================================

func (c *Container) initAIComponents() {
	log.Println("  🤖 Initializing AI components...")

	provider := aiopenai.NewOpenAIProvider(c.Config.OpenAI.APIKey)

	c.LLMClient = llm.NewClient(provider)
	c.OCRClient = ocr.NewClient(provider)

	c.VisionProvider = invoiceengines.NewOpenAIVisionEngine(
		c.OCRClient,
		c.Config.OpenAI.APIKey,
		c.Config.OpenAI.VisionModel,
	)
	log.Println("    ✅ Vision engine initialized")

	c.Extractor = invoiceengines.NewLLMExtractor(
		c.LLMClient,
		c.Config.OpenAI.ExtractionModel,
	)
	log.Println("    ✅ Extraction engine initialized")

	log.Println("  ✅ AI components initialized")
}

// =================================================================
// STORAGE INITIALIZATION 🗄️
// =================================================================

func (c *Container) initStorageComponents() {
	log.Println("  🗄️  Initializing storage components...")

	switch c.Config.Storage.Backend {
	case config.StorageBackendMongo:
		repo := invoiceinfra.NewMongoInvoiceRepository(
			c.MongoClient.Database(c.Config.Mongo.DBName),
		)
		if err := repo.EnsureIndexes(context.Background()); err != nil {
			log.Printf("    ⚠️  Failed to create invoice indexes: %v", err)
		}
		c.InvoiceRepo = repo
		log.Println("    ✅ Invoice repository initialized (mongo)")
	default:
		c.InvoiceRepo = invoiceinfra.NewPostgresInvoiceRepository(c.DB)
		log.Println("    ✅ Invoice repository initialized (postgres)")
	}

	log.Println("  ✅ Storage components initialized")
}

// =================================================================
// ARCHIVE INITIALIZATION 📦 (optional)
// =================================================================

func (c *Container) initArchiveComponents() {
	if !c.Config.Archive.ArchiveEnabled() {
		log.Println("  📦 Media archive disabled (no bucket configured)")
		return
	}

	log.Println("  📦 Initializing media archive...")

	var opts []func(*awsconfig.LoadOptions) error
	if c.Config.Archive.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Config.Archive.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Printf("  ⚠️  Failed to load AWS config, media archive disabled: %v", err)
		return
	}

	c.MediaArchiver = invoiceinfra.NewS3MediaArchive(
		s3.NewFromConfig(awsCfg),
		c.Config.Archive.Bucket,
		c.Config.Archive.Prefix,
	)

	log.Println("  ✅ Media archive initialized")
}

// =================================================================
// CHANNELS INITIALIZATION 📡
// =================================================================

func (c *Container) initChannelComponents() {
	log.Println("  📡 Initializing channel components...")

	c.WhatsAppAdapter = whatsapp.NewWhatsAppAdapter(whatsapp.Config{
		AccessToken:        c.Config.WhatsApp.AccessToken,
		PhoneNumberID:      c.Config.WhatsApp.PhoneNumberID,
		WebhookVerifyToken: c.Config.WhatsApp.WebhookVerifyToken,
		AppSecret:          c.Config.WhatsApp.AppSecret,
		APIVersion:         c.Config.WhatsApp.APIVersion,
	})
	log.Println("    ✅ WhatsApp adapter initialized")

	c.Deduper = whatsapp.NewRedisDeduper(c.RedisClient)
	log.Println("    ✅ Message deduper initialized")

	log.Println("  ✅ Channel components initialized")
}

// =================================================================
// PIPELINE INITIALIZATION ⚙️
// =================================================================

func (c *Container) initPipelineComponents() {
	log.Println("  ⚙️  Initializing invoice pipeline...")

	c.InvoicePipeline = invoicesrv.NewInvoicePipeline(
		c.WhatsAppAdapter,
		c.VisionProvider,
		c.Extractor,
		c.InvoiceRepo,
		c.MediaArchiver,
	)
	log.Println("    ✅ Invoice pipeline initialized")

	c.MessageRouter = channelsrv.NewMessageRouter(c.WhatsAppAdapter, c.InvoicePipeline)
	log.Println("    ✅ Message router initialized")

	c.WhatsAppWebhookHandler = whatsapp.NewWebhookHandler(
		c.WhatsAppAdapter,
		c.Deduper,
		c.MessageRouter,
	)
	c.WhatsAppWebhookRoutes = whatsapp.NewWebhookRoutes(c.WhatsAppWebhookHandler)
	log.Println("    ✅ WhatsApp webhook handler initialized")

	c.InvoiceHandler = invoiceapi.NewInvoiceHandler(c.InvoiceRepo)
	log.Println("    ✅ Invoice API handler initialized")

	log.Println("  ✅ Invoice pipeline initialized")
}

// =================================================================
// AUDIT INITIALIZATION ⏰
// =================================================================

func (c *Container) initAuditComponents() {
	if !c.Config.Audit.Enabled {
		log.Println("  ⏰ Amount auditor disabled")
		return
	}

	log.Println("  ⏰ Initializing amount auditor...")

	c.AmountAuditor = invoicesrv.NewAmountAuditor(c.InvoiceRepo, c.Config.Audit.Schedule)
	if err := c.AmountAuditor.Start(); err != nil {
		log.Printf("  ⚠️  Failed to start amount auditor: %v", err)
		c.AmountAuditor = nil
		return
	}

	log.Println("  ✅ Amount auditor started")
}

// =================================================================
// UTILITY METHODS
// =================================================================

// ValidateProviders checks external credentials at startup
func (c *Container) ValidateProviders(ctx context.Context) error {
	return c.InvoicePipeline.ValidateProviders(ctx)
}

func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AmountAuditor != nil {
		log.Println("  ⏰ Stopping amount auditor...")
		c.AmountAuditor.Stop()
	}

	if c.DB != nil {
		log.Println("  🗄️  Closing database connections...")
		if err := database.CloseDB(c.DB); err != nil {
			log.Printf("  ⚠️  Error closing database: %v", err)
		}
	}

	if c.RedisClient != nil {
		log.Println("  🔴 Closing Redis connections...")
		if err := database.CloseRedis(c.RedisClient); err != nil {
			log.Printf("  ⚠️  Error closing Redis: %v", err)
		}
	}

	log.Println("✅ Container cleanup complete")
}

func (c *Container) HealthCheck() map[string]bool {
	health := make(map[string]bool)

	switch c.Config.Storage.Backend {
	case config.StorageBackendMongo:
		health["storage"] = c.MongoClient != nil
	default:
		if c.DB != nil {
			health["storage"] = c.DB.Ping() == nil
		} else {
			health["storage"] = false
		}
	}

	if c.RedisClient != nil {
		err := c.RedisClient.Ping(c.RedisClient.Context()).Err()
		health["redis"] = err == nil
	} else {
		health["redis"] = false
	}

	health["whatsapp_adapter"] = c.WhatsAppAdapter != nil
	health["invoice_pipeline"] = c.InvoicePipeline != nil
	health["amount_auditor"] = c.AmountAuditor != nil || !c.Config.Audit.Enabled
	health["media_archiver"] = c.MediaArchiver != nil || !c.Config.Archive.ArchiveEnabled()

	return health
}

func (c *Container) GetServiceNames() []string {
	services := []string{
		"InvoicePipeline",
		"MessageRouter",
		"VisionProvider",
		"Extractor",
	}
	if c.AmountAuditor != nil {
		services = append(services, "AmountAuditor")
	}
	if c.MediaArchiver != nil {
		services = append(services, "MediaArchiver")
	}
	return services
}

func (c *Container) GetRepositoryNames() []string {
	return []string{
		"InvoiceRepo",
	}
}
