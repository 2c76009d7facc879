package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Email     EmailConfig
	Broker    BrokerConfig
	Slots     SlotsConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	PublicURL       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxConns     int32
	QueryTimeout time.Duration
	AutoMigrate  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	SessionTTL   time.Duration
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type BrokerConfig struct {
	AMQPURL      string
	AMQPQueue    string
	KafkaBrokers string
	KafkaTopic   string
	Timeout      time.Duration
}

// SlotsConfig holds the defaults the background generator uses for every active staff member.
type SlotsConfig struct {
	DayStart         string
	DayEnd           string
	SlotMinutes      int
	HorizonDays      int
	ExcludedWeekdays []string
	Timezone         string
	GenerateInterval time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "auto-shop-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_PUBLIC_URL", "http://localhost:5173")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_QUERY_TIMEOUT", "5s")
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_SESSION_TTL", "8h")

	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_FROM", "no-reply@auto-shop.local")

	viper.SetDefault("AMQP_QUEUE", "booking.events")
	viper.SetDefault("KAFKA_TOPIC", "booking.events")
	viper.SetDefault("BROKER_TIMEOUT", "5s")

	viper.SetDefault("SLOTS_DAY_START", "09:00")
	viper.SetDefault("SLOTS_DAY_END", "17:00")
	viper.SetDefault("SLOTS_MINUTES", 60)
	viper.SetDefault("SLOTS_HORIZON_DAYS", 30)
	viper.SetDefault("SLOTS_EXCLUDED_WEEKDAYS", "sunday")
	viper.SetDefault("SLOTS_TIMEZONE", "UTC")
	viper.SetDefault("SLOTS_GENERATE_INTERVAL", "24h")

	viper.SetDefault("RATE_LIMIT", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("CACHE_TTL", "30s")

	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	// .env is optional in containers where everything comes from the environment
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			PublicURL:       strings.TrimRight(viper.GetString("APP_PUBLIC_URL"), "/"),
			CORSOrigins:     SplitList(viper.GetString("CORS_ORIGINS")),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASS"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxConns:     viper.GetInt32("DB_MAX_CONNS"),
			QueryTimeout: viper.GetDuration("DB_QUERY_TIMEOUT"),
			AutoMigrate:  viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Admin: AdminConfig{
			Username:     viper.GetString("ADMIN_USERNAME"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
			SessionTTL:   viper.GetDuration("ADMIN_SESSION_TTL"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Broker: BrokerConfig{
			AMQPURL:      viper.GetString("AMQP_URL"),
			AMQPQueue:    viper.GetString("AMQP_QUEUE"),
			KafkaBrokers: viper.GetString("KAFKA_BROKERS"),
			KafkaTopic:   viper.GetString("KAFKA_TOPIC"),
			Timeout:      viper.GetDuration("BROKER_TIMEOUT"),
		},
		Slots: SlotsConfig{
			DayStart:         viper.GetString("SLOTS_DAY_START"),
			DayEnd:           viper.GetString("SLOTS_DAY_END"),
			SlotMinutes:      viper.GetInt("SLOTS_MINUTES"),
			HorizonDays:      viper.GetInt("SLOTS_HORIZON_DAYS"),
			ExcludedWeekdays: SplitList(viper.GetString("SLOTS_EXCLUDED_WEEKDAYS")),
			Timezone:         viper.GetString("SLOTS_TIMEZONE"),
			GenerateInterval: viper.GetDuration("SLOTS_GENERATE_INTERVAL"),
		},
		RateLimit: RateLimitConfig{
			Limit:  viper.GetInt("RATE_LIMIT"),
			Window: viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Cache: CacheConfig{
			TTL: viper.GetDuration("CACHE_TTL"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      viper.GetBool("OTEL_ENABLED"),
			ServiceName:  viper.GetString("APP_NAME"),
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  viper.GetFloat64("OTEL_SAMPLING_RATIO"),
		},
	}

	return config, nil
}

// SplitList splits a comma separated value and drops empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
