package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Parser     ParserConfig
	OCR        OCRConfig
	Upload     UploadConfig
	S3         S3Config
	Metrics    MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds the orchestrator policy settings.
type ExtractionConfig struct {
	// UseLLM routes non-empty documents to the model-backed extractor.
	UseLLM bool `mapstructure:"use_llm"`
	// Location is the IANA zone used for ticket times that carry no offset.
	Location string `mapstructure:"location"`
}

// ParserConfig holds settings for the LLM provider used by the model-backed extractor.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds Tesseract settings.
type OCRConfig struct {
	Language   string `mapstructure:"language"`
	Preprocess bool   `mapstructure:"preprocess"`
}

// UploadConfig holds temporary upload storage settings.
type UploadConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// S3Config holds the optional AWS S3 document source settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether a bucket has been configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load reads configuration from an optional .env file and environment variables
// with the FLIGHTDOCS_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLIGHTDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5174")
	v.SetDefault("server.read_timeout", "0s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (local frontend)
	v.SetDefault("cors.allowed_origins", "http://localhost:5174,http://127.0.0.1:5174")

	// Extraction defaults
	v.SetDefault("extraction.use_llm", true)
	v.SetDefault("extraction.location", "UTC")

	// Parser defaults. No default model: an unset model makes the LLM call fail.
	v.SetDefault("parser.provider", "openai")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.base_url", "")
	v.SetDefault("parser.timeout_secs", 0)

	// OCR defaults
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.preprocess", false)

	// Upload defaults
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_file_size_mb", 20)

	// S3 defaults (disabled unless a bucket is set)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "flightdocs")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "FLIGHTDOCS_SERVER_PORT",
		"server.read_timeout":     "FLIGHTDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "FLIGHTDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":      "FLIGHTDOCS_SERVER_ENVIRONMENT",
		"log.level":               "FLIGHTDOCS_LOG_LEVEL",
		"log.format":              "FLIGHTDOCS_LOG_FORMAT",
		"cors.allowed_origins":    "FLIGHTDOCS_CORS_ALLOWED_ORIGINS",
		"extraction.use_llm":      "FLIGHTDOCS_EXTRACTION_USE_LLM",
		"extraction.location":     "FLIGHTDOCS_EXTRACTION_LOCATION",
		"parser.provider":         "FLIGHTDOCS_PARSER_PROVIDER",
		"parser.api_key":          "FLIGHTDOCS_PARSER_API_KEY",
		"parser.default_model":    "FLIGHTDOCS_PARSER_DEFAULT_MODEL",
		"parser.base_url":         "FLIGHTDOCS_PARSER_BASE_URL",
		"parser.timeout_secs":     "FLIGHTDOCS_PARSER_TIMEOUT_SECS",
		"ocr.language":            "FLIGHTDOCS_OCR_LANGUAGE",
		"ocr.preprocess":          "FLIGHTDOCS_OCR_PREPROCESS",
		"upload.dir":              "FLIGHTDOCS_UPLOAD_DIR",
		"upload.max_file_size_mb": "FLIGHTDOCS_UPLOAD_MAX_FILE_SIZE_MB",
		"s3.region":               "FLIGHTDOCS_S3_REGION",
		"s3.bucket":               "FLIGHTDOCS_S3_BUCKET",
		"s3.endpoint":             "FLIGHTDOCS_S3_ENDPOINT",
		"s3.access_key":           "FLIGHTDOCS_S3_ACCESS_KEY",
		"s3.secret_key":           "FLIGHTDOCS_S3_SECRET_KEY",
		"metrics.enabled":         "FLIGHTDOCS_METRICS_ENABLED",
		"metrics.namespace":       "FLIGHTDOCS_METRICS_NAMESPACE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if FLIGHTDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FLIGHTDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Extraction = ExtractionConfig{
		UseLLM:   v.GetBool("extraction.use_llm"),
		Location: v.GetString("extraction.location"),
	}
	// Legacy switch from the original deployment.
	if legacy := os.Getenv("USE_OPENAI"); legacy != "" && os.Getenv("FLIGHTDOCS_EXTRACTION_USE_LLM") == "" {
		cfg.Extraction.UseLLM = strings.EqualFold(strings.TrimSpace(legacy), "true")
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		BaseURL:      v.GetString("parser.base_url"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
	}
	if cfg.Parser.DefaultModel == "" {
		cfg.Parser.DefaultModel = os.Getenv("OPENAI_MODEL")
	}
	if cfg.Parser.APIKey == "" {
		cfg.Parser.APIKey = firstEnv("OPENAI_API_KEY", "OPENAI_API_KEY2")
	}

	cfg.OCR = OCRConfig{
		Language:   v.GetString("ocr.language"),
		Preprocess: v.GetBool("ocr.preprocess"),
	}
	cfg.Upload = UploadConfig{
		Dir:           v.GetString("upload.dir"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled:   v.GetBool("metrics.enabled"),
		Namespace: v.GetString("metrics.namespace"),
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
