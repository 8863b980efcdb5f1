package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	Notifications NotificationsConfig
	Realtime      RealtimeConfig
	Outbox        OutboxConfig
	Discussions   DiscussionsConfig
	RateLimit     RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite)
	}
	if c.Notifications.Workers <= 0 {
		return fmt.Errorf("%s must be positive", EnvNotificationWorkers)
	}
	if c.Notifications.QueueSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvNotificationQueueSize)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"ARGVISION_APP_ENV" required:"true"`
	Port         string `envconfig:"ARGVISION_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARGVISION_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARGVISION_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"ARGVISION_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"ARGVISION_DB_DSN"`
	Driver string `envconfig:"ARGVISION_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ARGVISION_DB_HOST"`
	Port     int    `envconfig:"ARGVISION_DB_PORT" default:"5432"`
	User     string `envconfig:"ARGVISION_DB_USER"`
	Password string `envconfig:"ARGVISION_DB_PASSWORD"`
	Name     string `envconfig:"ARGVISION_DB_NAME"`
	SSLMode  string `envconfig:"ARGVISION_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARGVISION_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARGVISION_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARGVISION_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARGVISION_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARGVISION_REDIS_URL"`
	Address      string        `envconfig:"ARGVISION_REDIS_ADDR"`
	Password     string        `envconfig:"ARGVISION_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARGVISION_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARGVISION_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARGVISION_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARGVISION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARGVISION_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARGVISION_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"ARGVISION_REDIS_NAMESPACE" default:"av"`
}

// JWTConfig verifies access tokens minted by the identity service.
type JWTConfig struct {
	Secret            string `envconfig:"ARGVISION_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ARGVISION_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ARGVISION_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the configured access-token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARGVISION_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARGVISION_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"ARGVISION_EVENTING_IDEMPOTENCY_TTL" default:"24h"`
}

// NotificationsConfig drives the in-process notification dispatcher.
type NotificationsConfig struct {
	QueueSize       int           `envconfig:"ARGVISION_NOTIFICATIONS_QUEUE_SIZE" default:"256"`
	Workers         int           `envconfig:"ARGVISION_NOTIFICATIONS_WORKERS" default:"4"`
	DeliveryTimeout time.Duration `envconfig:"ARGVISION_NOTIFICATIONS_DELIVERY_TIMEOUT" default:"3s"`
	Channel         string        `envconfig:"ARGVISION_NOTIFICATIONS_CHANNEL" default:"notifications"`
}

type RealtimeConfig struct {
	AllowedOrigins []string      `envconfig:"ARGVISION_REALTIME_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	WriteWait      time.Duration `envconfig:"ARGVISION_REALTIME_WRITE_WAIT" default:"10s"`
	PongWait       time.Duration `envconfig:"ARGVISION_REALTIME_PONG_WAIT" default:"60s"`
	SendBuffer     int           `envconfig:"ARGVISION_REALTIME_SEND_BUFFER" default:"64"`
}

// PingPeriod is how often the server pings idle sockets.
func (r RealtimeConfig) PingPeriod() time.Duration {
	return r.PongWait * 9 / 10
}

// DiscussionsConfig throttles chat messages per user.
type DiscussionsConfig struct {
	MessageLimit  int64         `envconfig:"ARGVISION_DISCUSSIONS_MESSAGE_LIMIT" default:"20"`
	MessageWindow time.Duration `envconfig:"ARGVISION_DISCUSSIONS_MESSAGE_WINDOW" default:"10s"`
}

// RateLimitConfig caps mutating API calls per user.
type RateLimitConfig struct {
	Writes int64         `envconfig:"ARGVISION_RATE_LIMIT_WRITES" default:"120"`
	Window time.Duration `envconfig:"ARGVISION_RATE_LIMIT_WINDOW" default:"1m"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ARGVISION_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ARGVISION_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ARGVISION_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// PollInterval returns the publisher idle delay.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == DBDriverSQLite {
		db.DSN = "file:argvision.db?cache=shared&_foreign_keys=on"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
