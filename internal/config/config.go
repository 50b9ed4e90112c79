package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Stream    StreamConfig    `mapstructure:"stream"`
	TTL       TTLConfig       `mapstructure:"ttl"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Env          string   `mapstructure:"env"`
	AppURL       string   `mapstructure:"app_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type AuthConfig struct {
	// JWTSecret verifies HS256 session tokens issued by the web app.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type GeneratorConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	APIURL       string        `mapstructure:"api_url"`
	Model        string        `mapstructure:"model"`
	MaxPerWindow int           `mapstructure:"max_per_window"`
	Window       time.Duration `mapstructure:"window"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// RedisConfig enables the shared rate limiter and cross-instance SSE fan-out.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id"`
	Topics          []string `mapstructure:"topics"`
}

type StreamConfig struct {
	Keepalive time.Duration `mapstructure:"keepalive"`
	Buffer    int           `mapstructure:"buffer"`
}

type TTLConfig struct {
	RetentionDays int `mapstructure:"retention_days"` // Default: 30
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config.yaml. Environment variables win. Prefix: CONTOS_
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.app_url", "http://localhost:3000")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "contos")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.api_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("generator.model", "meta-llama/llama-3.1-8b-instruct:free")
	v.SetDefault("generator.max_per_window", 10)
	v.SetDefault("generator.window", time.Minute)
	v.SetDefault("generator.timeout", 60*time.Second)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group_id", "contos-notification-group")
	v.SetDefault("kafka.topics", []string{"social-events", "notification-commands"})
	v.SetDefault("stream.keepalive", 30*time.Second)
	v.SetDefault("stream.buffer", 32)
	v.SetDefault("ttl.retention_days", 30)

	// Environment variables (e.g. CONTOS_DATABASE_HOST -> database.host)
	v.SetEnvPrefix("CONTOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support simple env vars without prefix for Docker Compose convenience
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("generator.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("generator.model", "OPENROUTER_MODEL")
	v.BindEnv("server.app_url", "APP_URL")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("server.port", "PORT")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}
