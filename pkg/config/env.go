package config

const EnvPrefix = "ARGVISION"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "ARGVISION_APP_ENV"
	EnvPort     = "ARGVISION_APP_PORT"
	EnvLogLevel = "ARGVISION_LOG_LEVEL"

	EnvDBDSN    = "ARGVISION_DB_DSN"
	EnvDBDriver = "ARGVISION_DB_DRIVER"
	EnvDBHost   = "ARGVISION_DB_HOST"
	EnvDBUser   = "ARGVISION_DB_USER"
	EnvDBName   = "ARGVISION_DB_NAME"
	EnvUseSQL   = "ARGVISION_USE_SQLITE"

	EnvRedisURL  = "ARGVISION_REDIS_URL"
	EnvJWTSecret = "ARGVISION_JWT_SECRET"
	EnvJWTIssuer = "ARGVISION_JWT_ISSUER"

	EnvNotificationWorkers   = "ARGVISION_NOTIFICATIONS_WORKERS"
	EnvNotificationQueueSize = "ARGVISION_NOTIFICATIONS_QUEUE_SIZE"
	EnvRealtimeOrigins       = "ARGVISION_REALTIME_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
