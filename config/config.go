package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Upload  UploadConfig
	Kafka   KafkaConfig
	Sentry  SentryConfig
	Admin   AdminConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Driver   string // postgres | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file or DSN
	Migrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type UploadConfig struct {
	Driver     string // local | s3
	Dir        string
	MaxBytes   int64
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

type SentryConfig struct {
	DSN string
}

// AdminConfig seeds the first administrator; both fields empty disables seeding.
type AdminConfig struct {
	Login    string
	Password string
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	sessionTTL, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Path:     v.GetString("DB_PATH"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("SESSION_SECRET"),
			TTL:        sessionTTL,
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			Secure:     v.GetBool("SESSION_SECURE"),
		},
		Upload: UploadConfig{
			Driver:     v.GetString("UPLOAD_DRIVER"),
			Dir:        v.GetString("UPLOAD_DIR"),
			MaxBytes:   v.GetInt64("UPLOAD_MAX_BYTES"),
			S3Bucket:   v.GetString("S3_BUCKET"),
			S3Region:   v.GetString("S3_REGION"),
			S3Endpoint: v.GetString("S3_ENDPOINT"),
		},
		Kafka: KafkaConfig{
			Broker: v.GetString("KAFKA_BROKER"),
			Topic:  v.GetString("KAFKA_TOPIC"),
		},
		Sentry: SentryConfig{
			DSN: v.GetString("SENTRY_DSN"),
		},
		Admin: AdminConfig{
			Login:    v.GetString("ADMIN_LOGIN"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "physiocare")
	v.SetDefault("DB_PATH", "physiocare.db")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_COOKIE_NAME", "physiocare_session")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("UPLOAD_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("KAFKA_TOPIC", "physiocare.events")
}
