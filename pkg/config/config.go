package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every configuration variable.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "KSTORE_DB_DSN"
	EnvDBHost = "KSTORE_DB_HOST"
	EnvDBUser = "KSTORE_DB_USER"
	EnvDBName = "KSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Delivery     DeliveryConfig
	AutoPass     AutoPassConfig
	Promo        PromoConfig
	Cron         CronConfig
	Outbox       OutboxConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Eventing     EventingConfig
	Metrics      MetricsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"KSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"KSTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"KSTORE_DB_DSN"`
	Driver string `envconfig:"KSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"KSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KSTORE_DB_USER"`
	LegacyPassword string `envconfig:"KSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"KSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KSTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// DeliveryConfig carries the fee schedule applied at checkout.
type DeliveryConfig struct {
	FeeCents int `envconfig:"KSTORE_DELIVERY_FEE_CENTS" default:"500"`
}

// Fee returns the delivery fee in cents for the given fulfillment type.
// Pickup orders carry no fee.
func (d DeliveryConfig) Fee(fulfillmentType string) int {
	if fulfillmentType == "delivery" {
		return d.FeeCents
	}
	return 0
}

// AutoPassConfig toggles the automated acceptance of pending order items.
type AutoPassConfig struct {
	Enabled  bool          `envconfig:"KSTORE_AUTO_PASS_ENABLED" default:"false"`
	Interval time.Duration `envconfig:"KSTORE_AUTO_PASS_INTERVAL" default:"5s"`
}

type PromoConfig struct {
	DefaultDuration time.Duration `envconfig:"KSTORE_PROMO_DEFAULT_DURATION" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"KSTORE_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"KSTORE_CRON_LOCK_TTL" default:"5m"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KSTORE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KSTORE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KSTORE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KSTORE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"KSTORE_PUBSUB_ORDERS_TOPIC" default:"kstore-order-events"`
	OrdersSubscription string `envconfig:"KSTORE_PUBSUB_ORDERS_SUBSCRIPTION"`
}

// MetricsConfig sets where the worker serves its prometheus endpoint.
type MetricsConfig struct {
	Port string `envconfig:"KSTORE_METRICS_PORT" default:"9090"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"KSTORE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KSTORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
