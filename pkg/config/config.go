package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CESARMODAS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Snapshot driver names accepted by SnapshotConfig.Driver.
const (
	SnapshotDriverMemory = "memory"
	SnapshotDriverFile   = "file"
	SnapshotDriverRedis  = "redis"
	SnapshotDriverDB     = "db"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Snapshot SnapshotConfig
	DB       DBConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	UI       UIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Snapshot.validate(cfg.DB, cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CESARMODAS_APP_ENV" default:"dev"`
	Port         string `envconfig:"CESARMODAS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CESARMODAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CESARMODAS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SessionConfig struct {
	CookieName string        `envconfig:"CESARMODAS_SESSION_COOKIE" default:"cm_session"`
	TTL        time.Duration `envconfig:"CESARMODAS_SESSION_TTL" default:"720h"`
}

// SnapshotConfig selects where cart snapshots are mirrored. The in-memory
// cart stays authoritative; the snapshot only seeds the cart on first touch.
type SnapshotConfig struct {
	Driver    string `envconfig:"CESARMODAS_SNAPSHOT_DRIVER" default:"memory"`
	KeyPrefix string `envconfig:"CESARMODAS_SNAPSHOT_KEY_PREFIX" default:"cm_carrito"`
	FileDir   string `envconfig:"CESARMODAS_SNAPSHOT_FILE_DIR" default:"./data/carts"`
}

func (s SnapshotConfig) normalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s *SnapshotConfig) validate(db DBConfig, redis RedisConfig) error {
	driver := s.normalizedDriver()
	switch driver {
	case SnapshotDriverMemory, SnapshotDriverFile:
	case SnapshotDriverRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("snapshot driver %q requires CESARMODAS_REDIS_URL or CESARMODAS_REDIS_ADDR", driver)
		}
	case SnapshotDriverDB:
		if db.Driver != "sqlite" && db.DSN == "" {
			return fmt.Errorf("snapshot driver %q requires CESARMODAS_DB_DSN", driver)
		}
	default:
		return fmt.Errorf("unknown snapshot driver %q", s.Driver)
	}
	s.Driver = driver
	return nil
}

type DBConfig struct {
	Driver string `envconfig:"CESARMODAS_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CESARMODAS_DB_DSN"`
	Path   string `envconfig:"CESARMODAS_DB_SQLITE_PATH" default:"./data/storefront.db"`

	MaxOpenConns    int           `envconfig:"CESARMODAS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CESARMODAS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CESARMODAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CESARMODAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CESARMODAS_REDIS_URL"`
	Address      string        `envconfig:"CESARMODAS_REDIS_ADDR"`
	Password     string        `envconfig:"CESARMODAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CESARMODAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CESARMODAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CESARMODAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CESARMODAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CESARMODAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CESARMODAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	StoreName       string        `envconfig:"CESARMODAS_STORE_NAME" default:"CESAR MODAS"`
	WhatsAppNumber  string        `envconfig:"CESARMODAS_WHATSAPP_NUMBER" default:"51969216414"`
	ConfirmDelay    time.Duration `envconfig:"CESARMODAS_CHECKOUT_CONFIRM_DELAY" default:"500ms"`
	ConfirmTimeout  time.Duration `envconfig:"CESARMODAS_CHECKOUT_CONFIRM_TIMEOUT" default:"15s"`
}

type UIConfig struct {
	CurrencyPrefix string        `envconfig:"CESARMODAS_CURRENCY_PREFIX" default:"S/"`
	ToastDuration  time.Duration `envconfig:"CESARMODAS_TOAST_DURATION" default:"2600ms"`
}
