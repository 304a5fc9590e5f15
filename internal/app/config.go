package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ENDIRIM_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Storage   StorageConfig
	Summary   SummaryConfig
	Recommend RecommendConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StorageConfig selects where the product and offer catalogs come from.
type StorageConfig struct {
	// Driver is "file" for the JSON snapshot or "postgres" for the database.
	Driver       string `default:"file" usage:"Catalog storage driver: file or postgres"`
	ProductsFile string `default:"db/seed/products.json" usage:"Product snapshot path (file driver)" flag:"products-file"`
	OffersFile   string `default:"db/seed/offers.json" usage:"Offer snapshot path (file driver)" flag:"offers-file"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (ENDIRIM_STORAGE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// SummaryConfig controls the Gemini purchase summary client. Summaries are
// optional; with Enabled=false or an empty APIKey the purchase endpoint
// returns structured data only.
type SummaryConfig struct {
	Enabled  bool          `default:"false" usage:"Enable narrative purchase summaries"`
	BaseURL  string        `default:"https://generativelanguage.googleapis.com" usage:"Gemini API base URL" flag:"summary-base-url"`
	APIKey   string        `usage:"Gemini API key (ENDIRIM_SUMMARY_APIKEY)" flag:"summary-api-key"`
	Model    string        `default:"gemini-2.5-flash" usage:"Gemini model name" flag:"summary-model"`
	Language string        `default:"Azerbaijani" usage:"Summary output language" flag:"summary-language"`
	Timeout  time.Duration `default:"30s" usage:"Summary request timeout" flag:"summary-timeout"`
}

// RecommendConfig controls offer recommendations.
type RecommendConfig struct {
	TopN int `default:"5" usage:"Max recommended offers per profile" flag:"recommend-top-n"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ENDIRIM",
		Files:     []string{"config.yaml", "/etc/endirim/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Storage.Driver {
	case "file", "postgres":
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "postgres" && cfg.Storage.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ENDIRIM_STORAGE_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the application's ENDIRIM_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Storage.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
