package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	NotificationChannel    string
	NotificationKeepAlive  time.Duration
	SchedulerInterval      time.Duration
	SchedulerLookAhead     time.Duration
	SchedulerWorkers       int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	ResourceMaxSizeMB      int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("KELAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Kelas API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("notification.channel", "kelas")
	v.SetDefault("notification.keepalive", "30s")
	v.SetDefault("scheduler.interval", "1h")
	v.SetDefault("scheduler.lookahead", "70m")
	v.SetDefault("scheduler.workers", 4)
	v.SetDefault("cloudinary.folder", "kelas/resources")
	v.SetDefault("resource.max_size_mb", 10)

	keepAlive, err := time.ParseDuration(v.GetString("notification.keepalive"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid notification keepalive: %w", err)
	}

	interval, err := time.ParseDuration(v.GetString("scheduler.interval"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scheduler interval: %w", err)
	}

	lookAhead, err := time.ParseDuration(v.GetString("scheduler.lookahead"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scheduler lookahead: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		NotificationChannel:    v.GetString("notification.channel"),
		NotificationKeepAlive:  keepAlive,
		SchedulerInterval:      interval,
		SchedulerLookAhead:     lookAhead,
		SchedulerWorkers:       v.GetInt("scheduler.workers"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		ResourceMaxSizeMB:      v.GetInt("resource.max_size_mb"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SchedulerWorkers <= 0 {
		cfg.SchedulerWorkers = 4
	}

	return cfg, nil
}
