package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBolt     = "bolt"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	Bolt    BoltConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Payment PaymentConfig
	Events  EventsConfig
	Live    LiveConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type StoreConfig struct {
	Driver        string        `envconfig:"STORE_DRIVER" default:"postgres"`
	MaxTxRetries  int           `envconfig:"STORE_MAX_TX_RETRIES" default:"5"`
	RetryBaseWait time.Duration `envconfig:"STORE_RETRY_BASE_WAIT" default:"20ms"`
}

type DBConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER"`
	Password      string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME" default:"parkpass"`
	SSLMode       string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone      string `envconfig:"DB_TIMEZONE" default:"UTC"`
	NotifyChannel string `envconfig:"DB_NOTIFY_CHANNEL" default:"parkpass_changes"`
	MaxConns      int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type BoltConfig struct {
	Path string `envconfig:"BOLT_PATH" default:"parkpass.db"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Africa/Nairobi"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"10800"` // 3*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"JWT_ISSUER" default:""`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type PaymentConfig struct {
	OmisePublicKey string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey string `envconfig:"OMISE_SECRET_KEY"`
	Currency       string `envconfig:"PAYMENT_CURRENCY" default:"thb"`
	SourceType     string `envconfig:"PAYMENT_SOURCE_TYPE" default:"promptpay"`
	FallbackEmail  string `envconfig:"PAYMENT_FALLBACK_EMAIL" default:"unknown@example.com"`
}

// Publishing is disabled when URL is empty; the relay still drains the
// outbox and drops the messages.
type EventsConfig struct {
	AMQPURL        string        `envconfig:"AMQP_URL"`
	Exchange       string        `envconfig:"AMQP_EXCHANGE" default:"parkpass.events"`
	RelayInterval  time.Duration `envconfig:"OUTBOX_RELAY_INTERVAL" default:"1s"`
	RelayBatchSize int           `envconfig:"OUTBOX_RELAY_BATCH" default:"50"`
}

type LiveConfig struct {
	WriteTimeout time.Duration `envconfig:"LIVE_WRITE_TIMEOUT" default:"10s"`
	PingInterval time.Duration `envconfig:"LIVE_PING_INTERVAL" default:"30s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c StoreConfig) UsesPostgres() bool {
	return c.Driver == "" || c.Driver == StoreDriverPostgres
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverBolt:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Driver:        StoreDriverPostgres,
			MaxTxRetries:  10,
			RetryBaseWait: 5 * time.Millisecond,
		},
		DB: DBConfig{
			Host:          "localhost",
			Port:          "15433", // Test DB port
			User:          "test",
			Password:      "test",
			DBName:        "test_db",
			SSLMode:       "disable",
			TimeZone:      "UTC",
			NotifyChannel: "parkpass_changes",
			MaxConns:      20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Payment: PaymentConfig{
			Currency:      "thb",
			SourceType:    "promptpay",
			FallbackEmail: "unknown@example.com",
		},
		Events: EventsConfig{
			Exchange:       "parkpass.events",
			RelayInterval:  100 * time.Millisecond,
			RelayBatchSize: 50,
		},
		Live: LiveConfig{
			WriteTimeout: 5 * time.Second,
			PingInterval: 30 * time.Second,
		},
	}
}
