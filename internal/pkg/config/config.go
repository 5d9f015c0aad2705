package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port        int      `yaml:"port"`
	ServiceName string   `yaml:"service_name"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

type OtelConfig struct {
	Enabled      bool    `yaml:"enabled"`
	CollectorURL string  `yaml:"collector_url"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_minutes"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout_seconds"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime_minutes"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	LogLevel        string        `yaml:"log_level"`
}

// Redis connection config
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout_seconds"`
	CertContent    string        `yaml:"cert_content"`
}

type StorageConfig struct {
	Provider           string `yaml:"provider"`
	Folder             string `yaml:"folder"`
	MaxCaseUploadBytes int64  `yaml:"max_case_upload_bytes"`
}

type GCSConfig struct {
	BucketName string `yaml:"bucket_name"`
}

type S3Config struct {
	BucketName    string `yaml:"bucket_name"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
	UsePathStyle  bool   `yaml:"use_path_style"`
}

type SFTPConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	RemoteDir     string `yaml:"remote_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type PubSubConfig struct {
	Enabled           bool   `yaml:"enabled"`
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
}

// Kafka connection config
type KafkaConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Server           string `yaml:"server"`
	CaseEventsTopic  string `yaml:"case_events_topic"`
	SecurityProtocol string `yaml:"security_protocol"`
	SASLMechanism    string `yaml:"sasl_mechanism"`
	SASLUsername     string `yaml:"sasl_username"`
	SASLPassword     string `yaml:"sasl_password"`
	ClientID         string `yaml:"client_id"`
}

type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	HTTPTimeout time.Duration `yaml:"http_timeout_seconds"`
}

type SuggestionConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl_minutes"`
}

type RepairConfig struct {
	Interval    time.Duration `yaml:"interval_seconds"`
	MaxAttempts int           `yaml:"max_attempts"`
	BatchSize   int           `yaml:"batch_size"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LogConfig        `yaml:"logging"`
	Otel       OtelConfig       `yaml:"otel"`
	Database   DatabaseConfig   `yaml:"database"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	GCS        GCSConfig        `yaml:"gcs"`
	S3         S3Config         `yaml:"s3"`
	SFTP       SFTPConfig       `yaml:"sftp"`
	PubSub     PubSubConfig     `yaml:"pubsub"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	LLM        LLMConfig        `yaml:"llm"`
	Suggestion SuggestionConfig `yaml:"suggestion"`
	Repair     RepairConfig     `yaml:"repair"`
}

// nolint: funlen
func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", defaultInt(cfg.Server.Port, 8080))
	cfg.Server.ServiceName = GetEnvOrDefaultAsString("SERVICE_NAME",
		defaultString(cfg.Server.ServiceName, "loan-case-tracker"))
	cfg.Server.CORSOrigins = GetEnvOrDefaultAsList("SERVER_CORS_ORIGINS", cfg.Server.CORSOrigins)

	// log config defaults
	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", defaultString(cfg.Logging.LogLevel, "info"))

	cfg.Otel.Enabled = GetEnvOrDefaultAsBool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.CollectorURL = GetEnvOrDefaultAsString("OTEL_COLLECTOR_URL", cfg.Otel.CollectorURL)
	cfg.Otel.SampleRatio = GetEnvOrDefaultAsFloat64("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio)

	cfg.Database.Driver = strings.ToLower(GetEnvOrDefaultAsString("DATABASE_DRIVER",
		defaultString(cfg.Database.Driver, consts.DatabaseDriverMongo)))

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", defaultUint64(cfg.Mongo.MaxPoolSize, 20))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", defaultUint64(cfg.Mongo.MinPoolSize, 5))
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Postgres config defaults
	cfg.Postgres.DSN = GetEnvOrDefaultAsString("POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Postgres.MaxOpenConns = GetEnvOrDefaultAsInt("POSTGRES_MAX_OPEN_CONNS", defaultInt(cfg.Postgres.MaxOpenConns, 20))
	cfg.Postgres.MaxIdleConns = GetEnvOrDefaultAsInt("POSTGRES_MAX_IDLE_CONNS", defaultInt(cfg.Postgres.MaxIdleConns, 5))
	cfg.Postgres.ConnMaxLifetime = time.Duration(GetEnvOrDefaultAsInt("POSTGRES_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute
	cfg.Postgres.AutoMigrate = GetEnvOrDefaultAsBool("POSTGRES_AUTO_MIGRATE", cfg.Postgres.AutoMigrate)
	cfg.Postgres.LogLevel = GetEnvOrDefaultAsString("POSTGRES_LOG_LEVEL", defaultString(cfg.Postgres.LogLevel, "warn"))

	// Redis config defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsBool("REDIS_ENABLE_TLS", cfg.Redis.EnableTLS)
	cfg.Redis.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)

	// Object storage defaults
	cfg.Storage.Provider = strings.ToLower(GetEnvOrDefaultAsString("STORAGE_PROVIDER",
		defaultString(cfg.Storage.Provider, consts.StorageProviderGCS)))
	cfg.Storage.Folder = GetEnvOrDefaultAsString("STORAGE_FOLDER", defaultString(cfg.Storage.Folder, consts.CaseDocumentsFolder))
	cfg.Storage.MaxCaseUploadBytes = GetEnvOrDefaultAsInt64("STORAGE_MAX_CASE_UPLOAD_BYTES",
		defaultInt64(cfg.Storage.MaxCaseUploadBytes, consts.DefaultMaxCaseUploadBytes))

	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)

	cfg.S3.BucketName = GetEnvOrDefaultAsString("S3_BUCKET_NAME", cfg.S3.BucketName)
	cfg.S3.Region = GetEnvOrDefaultAsString("S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = GetEnvOrDefaultAsString("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.PublicBaseURL = GetEnvOrDefaultAsString("S3_PUBLIC_BASE_URL", cfg.S3.PublicBaseURL)
	cfg.S3.UsePathStyle = GetEnvOrDefaultAsBool("S3_USE_PATH_STYLE", cfg.S3.UsePathStyle)

	cfg.SFTP.Host = GetEnvOrDefaultAsString("SFTP_HOST", cfg.SFTP.Host)
	cfg.SFTP.Port = GetEnvOrDefaultAsInt("SFTP_PORT", defaultInt(cfg.SFTP.Port, 22))
	cfg.SFTP.User = GetEnvOrDefaultAsString("SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Password = GetEnvOrDefaultAsString("SFTP_PASSWORD", cfg.SFTP.Password)
	cfg.SFTP.RemoteDir = GetEnvOrDefaultAsString("SFTP_REMOTE_DIR", defaultString(cfg.SFTP.RemoteDir, "/upload"))
	cfg.SFTP.PublicBaseURL = GetEnvOrDefaultAsString("SFTP_PUBLIC_BASE_URL", cfg.SFTP.PublicBaseURL)

	// PubSub config defaults
	cfg.PubSub.Enabled = GetEnvOrDefaultAsBool("PUBSUB_ENABLED", cfg.PubSub.Enabled)
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC", cfg.PubSub.NotificationTopic)

	// Kafka config defaults
	cfg.Kafka.Enabled = GetEnvOrDefaultAsBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.CaseEventsTopic = GetEnvOrDefaultAsString("KAFKA_CASE_EVENTS_TOPIC", cfg.Kafka.CaseEventsTopic)
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", cfg.Kafka.ClientID)

	// LLM config defaults
	cfg.LLM.BaseURL = GetEnvOrDefaultAsString("LLM_BASE_URL",
		defaultString(cfg.LLM.BaseURL, "https://generativelanguage.googleapis.com/v1beta"))
	cfg.LLM.Model = GetEnvOrDefaultAsString("LLM_MODEL", defaultString(cfg.LLM.Model, "gemini-2.0-flash"))
	cfg.LLM.APIKey = GetEnvOrDefaultAsString("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.HTTPTimeout = time.Duration(GetEnvOrDefaultAsInt("LLM_HTTP_TIMEOUT_SECONDS", 30)) * time.Second

	cfg.Suggestion.CacheTTL = time.Duration(GetEnvOrDefaultAsInt("SUGGESTION_CACHE_TTL_MINUTES", 60)) * time.Minute

	cfg.Repair.Interval = time.Duration(GetEnvOrDefaultAsInt("REPAIR_INTERVAL_SECONDS", 30)) * time.Second
	cfg.Repair.MaxAttempts = GetEnvOrDefaultAsInt("REPAIR_MAX_ATTEMPTS", defaultInt(cfg.Repair.MaxAttempts, 5))
	cfg.Repair.BatchSize = GetEnvOrDefaultAsInt("REPAIR_BATCH_SIZE", defaultInt(cfg.Repair.BatchSize, 50))

	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: path comes from deployment config
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err, zap.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info("Configuration loaded successfully", zap.String("path", configPath))

	return defaultCfg, nil
}

// LoadFromConfig loads an optional .env file, then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if err := validateDatabaseConfig(cfg); err != nil {
		return err
	}
	if err := validateStorageConfig(cfg); err != nil {
		return err
	}
	if cfg.Repair.MaxAttempts < 1 || cfg.Repair.MaxAttempts > 20 {
		return fmt.Errorf("repair.max_attempts must be between 1 and 20, got %d", cfg.Repair.MaxAttempts)
	}
	if cfg.Repair.BatchSize < 1 {
		return fmt.Errorf("repair.batch_size must be positive, got %d", cfg.Repair.BatchSize)
	}
	if cfg.Kafka.Enabled && cfg.Kafka.CaseEventsTopic == "" {
		return fmt.Errorf("kafka.case_events_topic is required when kafka is enabled")
	}
	if cfg.PubSub.Enabled && (cfg.PubSub.ProjectID == "" || cfg.PubSub.NotificationTopic == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.notification_topic are required when pubsub is enabled")
	}
	return nil
}

func validateDatabaseConfig(cfg *AppConfig) error {
	switch cfg.Database.Driver {
	case consts.DatabaseDriverMongo:
		return validateMongoConfig(cfg.Mongo)
	case consts.DatabaseDriverPostgres:
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres driver")
		}
		return nil
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q",
			consts.DatabaseDriverMongo, consts.DatabaseDriverPostgres, cfg.Database.Driver)
	}
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.MinPoolSize < 1 || mongo.MinPoolSize > 10 {
		return fmt.Errorf("mongo.min_pool_size must be between 1 and 10, got %d", mongo.MinPoolSize)
	}
	if mongo.MaxPoolSize < mongo.MinPoolSize || mongo.MaxPoolSize > 50 {
		return fmt.Errorf("mongo.max_pool_size must be between min_pool_size and 50, got %d", mongo.MaxPoolSize)
	}
	return nil
}

func validateStorageConfig(cfg *AppConfig) error {
	if cfg.Storage.MaxCaseUploadBytes <= 0 {
		return fmt.Errorf("storage.max_case_upload_bytes must be positive, got %d", cfg.Storage.MaxCaseUploadBytes)
	}
	switch cfg.Storage.Provider {
	case consts.StorageProviderGCS:
		if cfg.GCS.BucketName == "" {
			return fmt.Errorf("gcs.bucket_name is required for the gcs storage provider")
		}
	case consts.StorageProviderS3:
		if cfg.S3.BucketName == "" {
			return fmt.Errorf("s3.bucket_name is required for the s3 storage provider")
		}
	case consts.StorageProviderSFTP:
		if cfg.SFTP.Host == "" || cfg.SFTP.User == "" {
			return fmt.Errorf("sftp.host and sftp.user are required for the sftp storage provider")
		}
	default:
		return fmt.Errorf("storage.provider must be one of gcs, s3, sftp, got %q", cfg.Storage.Provider)
	}
	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

func GetEnvOrDefaultAsInt64(key string, defaultValue int64) int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsFloat64(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvOrDefaultAsString returns the value of the given env variable or the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if val != "" {
			return val
		}
	}
	return defaultVal
}

// GetEnvOrDefaultAsList splits a comma-separated env variable, dropping
// empty entries.
func GetEnvOrDefaultAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func defaultInt64(v, def int64) int64 {
	if v == 0 {
		return def
	}
	return v
}

func defaultUint64(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}
