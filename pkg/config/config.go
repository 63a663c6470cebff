package config

import (
	"fmt"
	"os"
	"time"
)

// Backends de almacenamiento soportados
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMongo    = "mongo"
)

// Config configuración principal de la aplicación
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	WhatsApp WhatsAppConfig
	OpenAI   OpenAIConfig
	Archive  ArchiveConfig
	Audit    AuditConfig
}

// ServerConfig configuración del servidor HTTP
type ServerConfig struct {
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selecciona el backend de persistencia de facturas
type StorageConfig struct {
	Backend string
}

// DatabaseConfig configuración de PostgreSQL
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoConfig configuración de MongoDB
type MongoConfig struct {
	URI    string
	DBName string
}

// RedisConfig configuración de Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WhatsAppConfig credenciales de la WhatsApp Business API
type WhatsAppConfig struct {
	AccessToken        string
	PhoneNumberID      string
	WebhookVerifyToken string
	AppSecret          string
	APIVersion         string
}

// OpenAIConfig credenciales y modelos de OpenAI
type OpenAIConfig struct {
	APIKey          string
	VisionModel     string
	ExtractionModel string
}

// ArchiveConfig archivo opcional de imágenes en S3; deshabilitado si el
// bucket está vacío
type ArchiveConfig struct {
	Bucket string
	Prefix string
	Region string
}

// AuditConfig auditoría nocturna de montos
type AuditConfig struct {
	Enabled  bool
	Schedule string
}

// Load carga la configuración desde variables de entorno
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getDurationEnv("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", getEnv("POSTGRES_HOST", "localhost")),
			Port:            getEnv("DB_PORT", getEnv("POSTGRES_PORT", "5432")),
			User:            getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres")),
			Password:        getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres")),
			DBName:          getEnv("DB_NAME", getEnv("POSTGRES_DB", "facturamelo")),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGODB_DATABASE", "facturamelo"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:        getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID:      getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			WebhookVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN_WEBHOOK", ""),
			AppSecret:          getEnv("WHATSAPP_APP_SECRET", ""),
			APIVersion:         getEnv("WHATSAPP_API_VERSION", "v24.0"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			VisionModel:     getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
			ExtractionModel: getEnv("OPENAI_EXTRACTION_MODEL", "gpt-4o"),
		},
		Archive: ArchiveConfig{
			Bucket: getEnv("ARCHIVE_S3_BUCKET", ""),
			Prefix: getEnv("ARCHIVE_S3_PREFIX", "invoices"),
			Region: getEnv("AWS_REGION", ""),
		},
		Audit: AuditConfig{
			Enabled:  getBoolEnv("AUDIT_ENABLED", true),
			Schedule: getEnv("AUDIT_SCHEDULE", "0 3 * * *"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate valida la configuración; falla rápido al arrancar
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case StorageBackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if c.Mongo.DBName == "" {
			return fmt.Errorf("MONGODB_DATABASE is required")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendPostgres, StorageBackendMongo, c.Storage.Backend)
	}

	if c.WhatsApp.AccessToken == "" {
		return fmt.Errorf("WHATSAPP_TOKEN is required")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID is required")
	}
	if c.WhatsApp.WebhookVerifyToken == "" {
		return fmt.Errorf("WHATSAPP_VERIFY_TOKEN_WEBHOOK is required")
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	return nil
}

// GetDSN retorna el DSN de PostgreSQL
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr retorna la dirección de Redis
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ArchiveEnabled indica si el archivo de imágenes está configurado
func (c *ArchiveConfig) ArchiveEnabled() bool {
	return c.Bucket != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
