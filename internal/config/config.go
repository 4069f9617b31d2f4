package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Mapbox    MapboxConfig
	Journal   JournalConfig
	Worker    WorkerConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// MapboxConfig - настройки клиента прямого геокодирования
type MapboxConfig struct {
	AccessToken     string
	BaseURL         string
	APIVersion      string
	Permanent       bool
	RequestTimeout  int // seconds
	MaxBatchQueries int
	UserAgent       string
}

// JournalConfig - журнал запросов в PostgreSQL
type JournalConfig struct {
	Enabled bool
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxBatchSize      int
}

// SchedulerConfig - объединение одиночных запросов в пакеты
type SchedulerConfig struct {
	BatchSize int
	Interval  time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env необязателен: в контейнере конфигурация приходит из окружения
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(viper.GetViper()), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Mapbox: MapboxConfig{
			AccessToken:     v.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:         strings.TrimRight(v.GetString("MAPBOX_BASE_URL"), "/"),
			APIVersion:      v.GetString("MAPBOX_API_VERSION"),
			Permanent:       v.GetBool("MAPBOX_PERMANENT"),
			RequestTimeout:  v.GetInt("MAPBOX_REQUEST_TIMEOUT"),
			MaxBatchQueries: v.GetInt("MAPBOX_MAX_BATCH_QUERIES"),
			UserAgent:       v.GetString("MAPBOX_USER_AGENT"),
		},
		Journal: JournalConfig{
			Enabled: v.GetBool("JOURNAL_ENABLED"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxBatchSize:      v.GetInt("WORKER_MAX_BATCH_SIZE"),
		},
		Scheduler: SchedulerConfig{
			BatchSize: v.GetInt("GEOCODE_SCHEDULER_BATCH_SIZE"),
			Interval:  time.Duration(v.GetInt("GEOCODE_SCHEDULER_INTERVAL_MS")) * time.Millisecond,
		},
	}

	cfg.applyDefaults()
	return cfg
}

// Set default values if not provided
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Mapbox.BaseURL == "" {
		c.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if c.Mapbox.APIVersion == "" {
		c.Mapbox.APIVersion = "v5"
	}
	if c.Mapbox.RequestTimeout == 0 {
		c.Mapbox.RequestTimeout = 30
	}
	if c.Mapbox.MaxBatchQueries == 0 {
		c.Mapbox.MaxBatchQueries = 50
	}
	if c.Mapbox.UserAgent == "" {
		c.Mapbox.UserAgent = "geocoding-microservice/1.0"
	}
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "geocode-batch-workers"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.MaxBatchSize == 0 {
		c.Worker.MaxBatchSize = 20
	}
	if c.Scheduler.BatchSize == 0 {
		c.Scheduler.BatchSize = c.Mapbox.MaxBatchQueries
	}
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = 50 * time.Millisecond
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
