// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Ops       OpsConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	Forecast  ForecastConfig
	Replenish ReplenishConfig
	LogLevel  string
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// OpsConfig covers the secondary operational server (health, metrics,
// manual job triggers).
type OpsConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host                 string
	Port                 string
	User                 string
	Password             string
	DBName               string
	SSLMode              string
	MaxOpenConns         int
	MaxIdleConns         int
	MaxConcurrentQueries int
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ForecastConfig carries the demand-model tunables. Horizon and minimum
// history are threaded into the generator explicitly so nothing reads
// package-level state at forecast time.
type ForecastConfig struct {
	HorizonDays    int
	MinHistoryDays int
	Workers        int
}

// ReplenishConfig carries the alert-rule tunables. Defaults apply when a
// product has no supplier profile.
type ReplenishConfig struct {
	SafetyStockDays     int
	DefaultLeadTimeDays int
	DefaultMinOrderQty  int
	RestockWindowDays   int
	Workers             int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("OPS_PORT", "9090")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockcast")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
		viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
		viper.SetDefault("DB_MAX_CONCURRENT_QUERIES", 10)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 900)
		viper.SetDefault("KAFKA_ENABLED", false)
		viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
		viper.SetDefault("KAFKA_ALERT_TOPIC", "replenishment-alerts")
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "stockcast-archive")
		viper.SetDefault("STORAGE_USE_SSL", false)
		viper.SetDefault("FORECAST_HORIZON_DAYS", 30)
		viper.SetDefault("FORECAST_MIN_HISTORY_DAYS", 7)
		viper.SetDefault("FORECAST_WORKERS", 4)
		viper.SetDefault("SAFETY_STOCK_DAYS", 7)
		viper.SetDefault("DEFAULT_LEAD_TIME_DAYS", 7)
		viper.SetDefault("DEFAULT_MIN_ORDER_QTY", 1)
		viper.SetDefault("RESTOCK_WINDOW_DAYS", 30)
		viper.SetDefault("REPLENISH_WORKERS", 4)
		viper.SetDefault("LOG_LEVEL", "info")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Ops: OpsConfig{
				Port: viper.GetString("OPS_PORT"),
			},
			Database: DatabaseConfig{
				Host:                 viper.GetString("DB_HOST"),
				Port:                 viper.GetString("DB_PORT"),
				User:                 viper.GetString("DB_USER"),
				Password:             viper.GetString("DB_PASSWORD"),
				DBName:               viper.GetString("DB_NAME"),
				SSLMode:              viper.GetString("DB_SSLMODE"),
				MaxOpenConns:         viper.GetInt("DB_MAX_OPEN_CONNS"),
				MaxIdleConns:         viper.GetInt("DB_MAX_IDLE_CONNS"),
				MaxConcurrentQueries: viper.GetInt("DB_MAX_CONCURRENT_QUERIES"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Kafka: KafkaConfig{
				Enabled: viper.GetBool("KAFKA_ENABLED"),
				Brokers: splitCSV(viper.GetString("KAFKA_BROKERS")),
				Topic:   viper.GetString("KAFKA_ALERT_TOPIC"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Forecast: ForecastConfig{
				HorizonDays:    viper.GetInt("FORECAST_HORIZON_DAYS"),
				MinHistoryDays: viper.GetInt("FORECAST_MIN_HISTORY_DAYS"),
				Workers:        viper.GetInt("FORECAST_WORKERS"),
			},
			Replenish: ReplenishConfig{
				SafetyStockDays:     viper.GetInt("SAFETY_STOCK_DAYS"),
				DefaultLeadTimeDays: viper.GetInt("DEFAULT_LEAD_TIME_DAYS"),
				DefaultMinOrderQty:  viper.GetInt("DEFAULT_MIN_ORDER_QTY"),
				RestockWindowDays:   viper.GetInt("RESTOCK_WINDOW_DAYS"),
				Workers:             viper.GetInt("REPLENISH_WORKERS"),
			},
			LogLevel: viper.GetString("LOG_LEVEL"),
		}
	})

	return instance
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
