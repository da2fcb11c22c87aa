package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at an optional YAML file.
// Values from the file replace the defaults; environment variables win over
// both.
const FileEnv = "DEPOSITDEFENDER_CONFIG"

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	LogFormat  string `yaml:"log_format"`

	// ArchiveBackend is none, local or s3.
	ArchiveBackend   string `yaml:"archive_backend"`
	ArchiveLocalPath string `yaml:"archive_local_path"`
	S3Endpoint       string `yaml:"s3_endpoint"`
	S3AccessKey      string `yaml:"s3_access_key"`
	S3SecretKey      string `yaml:"s3_secret_key"`
	S3Bucket         string `yaml:"s3_bucket"`
	S3UseSSL         bool   `yaml:"s3_use_ssl"`

	// AssessBackend is none, claude or ollama.
	AssessBackend string `yaml:"assess_backend"`
	ClaudeAPIKey  string `yaml:"claude_api_key"`
	ClaudeModel   string `yaml:"claude_model"`
	OllamaHost    string `yaml:"ollama_host"`
	OllamaModel   string `yaml:"ollama_model"`

	ShareSecret    string        `yaml:"share_secret"`
	ShareTTL       time.Duration `yaml:"share_ttl"`
	ShareMaxAccess int           `yaml:"share_max_access"`

	WatermarkText      string `yaml:"watermark_text"`
	ThumbnailCacheSize int    `yaml:"thumbnail_cache_size"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:         ":8080",
		DBPath:             "/data/depositdefender.db",
		LogLevel:           "info",
		LogFormat:          "json",
		ArchiveBackend:     "none",
		ArchiveLocalPath:   "/data/reports",
		S3Bucket:           "depositdefender-reports",
		AssessBackend:      "none",
		ClaudeModel:        "claude-sonnet-4-5",
		OllamaHost:         "http://localhost:11434",
		OllamaModel:        "llava",
		ShareTTL:           7 * 24 * time.Hour,
		ShareMaxAccess:     10,
		WatermarkText:      "DepositDefender",
		ThumbnailCacheSize: 256,
	}
}

func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.ArchiveBackend = getEnv("ARCHIVE_BACKEND", cfg.ArchiveBackend)
	cfg.ArchiveLocalPath = getEnv("ARCHIVE_LOCAL_PATH", cfg.ArchiveLocalPath)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = getEnv("S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.AssessBackend = getEnv("ASSESS_BACKEND", cfg.AssessBackend)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.ShareSecret = getEnv("SHARE_SECRET", cfg.ShareSecret)
	cfg.WatermarkText = getEnv("WATERMARK_TEXT", cfg.WatermarkText)

	var err error
	if cfg.S3UseSSL, err = getEnvBool("S3_USE_SSL", cfg.S3UseSSL); err != nil {
		return nil, err
	}
	if cfg.ShareTTL, err = getEnvDuration("SHARE_TTL", cfg.ShareTTL); err != nil {
		return nil, err
	}
	if cfg.ShareMaxAccess, err = getEnvInt("SHARE_MAX_ACCESS", cfg.ShareMaxAccess); err != nil {
		return nil, err
	}
	if cfg.ThumbnailCacheSize, err = getEnvInt("THUMBNAIL_CACHE_SIZE", cfg.ThumbnailCacheSize); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ArchiveBackend {
	case "none", "local", "s3":
	default:
		return fmt.Errorf("unknown ARCHIVE_BACKEND %q", c.ArchiveBackend)
	}
	switch c.AssessBackend {
	case "none", "claude", "ollama":
	default:
		return fmt.Errorf("unknown ASSESS_BACKEND %q", c.AssessBackend)
	}
	if c.AssessBackend == "claude" && c.ClaudeAPIKey == "" {
		return fmt.Errorf("CLAUDE_API_KEY is required when ASSESS_BACKEND=claude")
	}
	if c.ArchiveBackend == "s3" && c.S3Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required when ARCHIVE_BACKEND=s3")
	}
	if c.ShareTTL <= 0 {
		return fmt.Errorf("SHARE_TTL must be positive, got %s", c.ShareTTL)
	}
	if c.ShareMaxAccess < 1 {
		return fmt.Errorf("SHARE_MAX_ACCESS must be at least 1, got %d", c.ShareMaxAccess)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
