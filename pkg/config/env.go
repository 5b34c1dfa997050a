package config

const (
	EnvPrefix = "BOQ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv       = "BOQ_APP_ENV"
	EnvPort         = "BOQ_APP_PORT"
	EnvLogLevel     = "BOQ_LOG_LEVEL"
	EnvLogFormat    = "BOQ_LOG_FORMAT"
	EnvDBDriver     = "BOQ_DB_DRIVER"
	EnvDBDSN        = "BOQ_DB_DSN"
	EnvDBPath       = "BOQ_DB_PATH"
	EnvAutoMigrate  = "BOQ_AUTO_MIGRATE"
	EnvMetricsPath  = "BOQ_METRICS_PATH"
	EnvImportStop   = "BOQ_IMPORT_STOP_ON_ERROR"
	EnvDBSlowQuery  = "BOQ_DB_SLOW_QUERY_THRESHOLD"
	EnvDBPrepareSQL = "BOQ_DB_PREPARE_STATEMENTS"
	EnvCORSOrigins  = "BOQ_CORS_ALLOWED_ORIGINS"

	EnvValidationStripUnknown    = "BOQ_VALIDATION_STRIP_UNKNOWN"
	EnvValidationAbortEarly      = "BOQ_VALIDATION_ABORT_EARLY"
	EnvValidationAllowHTML       = "BOQ_VALIDATION_ALLOW_HTML"
	EnvValidationMaxStringLength = "BOQ_VALIDATION_MAX_STRING_LENGTH"
)
