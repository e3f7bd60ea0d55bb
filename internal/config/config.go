package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Queue    QueueConfig
	Geo      GeoConfig
	Log      LogConfig
	Worker   WorkerConfig
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

// QueueConfig points at the durable task queue used to dispatch import jobs.
// ResultBackendURL is read from configuration but not used by any component;
// job progress is persisted in Postgres.
type QueueConfig struct {
	BrokerURL        string
	ResultBackendURL string
	Host             string
	Port             int
	Password         string
	DB               int
}

// GeoConfig configures the offline and online geocode resolvers.
type GeoConfig struct {
	PolygonPath           string
	HTTPResolverBaseURL   string
	HTTPResolverUserAgent string
	HTTPRequestTimeout    time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	ImportBatchSize   int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Queue: QueueConfig{
			BrokerURL:        viper.GetString("QUEUE_BROKER_URL"),
			ResultBackendURL: viper.GetString("RESULT_BACKEND_URL"),
			Host:             viper.GetString("REDIS_HOST"),
			Port:             viper.GetInt("REDIS_PORT"),
			Password:         viper.GetString("REDIS_PASSWORD"),
			DB:               viper.GetInt("REDIS_DB"),
		},
		Geo: GeoConfig{
			PolygonPath:           viper.GetString("GEOJSON_POLYGON_PATH"),
			HTTPResolverBaseURL:   viper.GetString("HTTP_RESOLVER_BASE_URL"),
			HTTPResolverUserAgent: viper.GetString("HTTP_RESOLVER_USER_AGENT"),
			HTTPRequestTimeout:    time.Duration(viper.GetInt("HTTP_RESOLVER_TIMEOUT_SECONDS")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
			ImportBatchSize:   viper.GetInt("WORKER_IMPORT_BATCH_SIZE"),
		},
	}

	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "import-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.ImportBatchSize == 0 {
		cfg.Worker.ImportBatchSize = 500
	}
	if cfg.Geo.HTTPRequestTimeout == 0 {
		cfg.Geo.HTTPRequestTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
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

func (c *Config) GetQueueAddr() string {
	return fmt.Sprintf("%s:%d", c.Queue.Host, c.Queue.Port)
}
