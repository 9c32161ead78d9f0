package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Fleet     FleetConfig
	Backend   BackendConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	AI        AIConfig
	WhatsApp  WhatsAppConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	SeedPassword string
}

// FleetConfig sizes the seeded fleet.
type FleetConfig struct {
	Size int
}

// BackendConfig points at the central server used for sync, temperature, history and templates.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether consolidated publishing is configured.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// ReportingConfig holds scheduler and export settings.
type ReportingConfig struct {
	PublishSchedule string
	DigestSchedule  string
	Timezone        string
	TemplateName    string
	TemplateSheet   string
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
	AnthropicURL string
	Model        string
}

// Enabled reports whether dispatch analysis is configured.
func (c AIConfig) Enabled() bool { return c.AnthropicKey != "" }

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	AdminNumber   string
}

// Enabled reports whether the daily digest can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.AdminNumber != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	tokenTTL, err := durationFromEnv("JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	backendTimeout, err := durationFromEnv("BACKEND_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	fleetSize, err := intFromEnv("FLEET_SIZE", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTIssuer:    getenvWithDefault("JWT_ISSUER", "fleetcheck"),
			TokenTTL:     tokenTTL,
			SeedPassword: getenvWithDefault("SEED_PASSWORD", "123"),
		},
		Fleet: FleetConfig{
			Size: fleetSize,
		},
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_URL"),
			Timeout: backendTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "fleetcheck"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		Reporting: ReportingConfig{
			PublishSchedule: getenvWithDefault("PUBLISH_CRON_SCHEDULE", "0 23 * * *"),
			DigestSchedule:  getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "America/Bogota"),
			TemplateName:    getenvWithDefault("TEMPLATE_NAME", "plantilla_vom.xlsx"),
			TemplateSheet:   getenvWithDefault("TEMPLATE_SHEET", "VOM"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicURL: getenvWithDefault("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
			Model:        getenvWithDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AdminNumber:   os.Getenv("WHATSAPP_ADMIN_NUMBER"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Auth.JWTSecret == "":
		return errors.New("JWT_SECRET must be provided")
	case len(c.Auth.JWTSecret) < minSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	case c.Auth.TokenTTL <= 0:
		return errors.New("JWT_TTL must be positive")
	case c.Auth.SeedPassword == "":
		return errors.New("SEED_PASSWORD must not be empty")
	}

	if c.Fleet.Size < 1 {
		return errors.New("FLEET_SIZE must be at least 1")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}
	if c.Reporting.PublishSchedule == "" || c.Reporting.DigestSchedule == "" {
		return errors.New("PUBLISH_CRON_SCHEDULE and DIGEST_CRON_SCHEDULE must not be empty")
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided with GOOGLE_SHEET_REPORT_ID")
	}

	if c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID == "" {
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
