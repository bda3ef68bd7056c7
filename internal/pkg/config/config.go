package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (engine horizons, timeouts), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Auth    AuthConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type AuthConfig struct {
	StaffTokenSecret string `envconfig:"STAFF_TOKEN_SECRET" required:"true"`
}

// BookingConfig carries the engine knobs. Slot dates are UTC calendar
// dates everywhere; horizons are evaluated against UTC.
type BookingConfig struct {
	HorizonDays          int           `envconfig:"BOOKING_HORIZON_DAYS" default:"90"`
	FlexibleWindowDays   int           `envconfig:"BOOKING_FLEXIBLE_WINDOW_DAYS" default:"30"`
	NoRefundHorizonHours int           `envconfig:"BOOKING_NO_REFUND_HORIZON_HOURS" default:"48"`
	PreReservationTTL    time.Duration `envconfig:"BOOKING_PRE_RESERVATION_TTL" default:"24h"`
	GiftcardHoldTTL      time.Duration `envconfig:"GIFTCARD_HOLD_TTL" default:"30m"`
	SweepInterval        time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"5m"`
	SweepBatchSize       int           `envconfig:"BOOKING_SWEEP_BATCH_SIZE" default:"100"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Auth: AuthConfig{
			StaffTokenSecret: "test-secret",
		},
		Booking: BookingConfig{
			HorizonDays:          90,
			FlexibleWindowDays:   30,
			NoRefundHorizonHours: 48,
			PreReservationTTL:    24 * time.Hour,
			GiftcardHoldTTL:      30 * time.Minute,
			SweepInterval:        5 * time.Minute,
			SweepBatchSize:       100,
		},
	}
}
