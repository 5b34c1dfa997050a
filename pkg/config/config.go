package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	Validation   ValidationConfig
	Metrics      MetricsConfig
	Import       ImportConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return nil, err
	}
	if cfg.Validation.MaxStringLength < 0 {
		return nil, fmt.Errorf("%s must not be negative", EnvValidationMaxStringLength)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOQ_APP_ENV" default:"dev"`
	Port         string `envconfig:"BOQ_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BOQ_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"BOQ_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"BOQ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"BOQ_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"BOQ_DB_DSN"`
	Path   string `envconfig:"BOQ_DB_PATH" default:"boq.db"`

	PrepareStatements  bool          `envconfig:"BOQ_DB_PREPARE_STATEMENTS" default:"true"`
	SlowQueryThreshold time.Duration `envconfig:"BOQ_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`

	MaxOpenConns    int           `envconfig:"BOQ_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"BOQ_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"BOQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return db.Driver == DBDriverSQLite
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BOQ_AUTO_MIGRATE" default:"true"`
}

// ValidationConfig mirrors the validation engine options so deployments can
// tune the defaults without code changes.
type ValidationConfig struct {
	StripUnknown       bool `envconfig:"BOQ_VALIDATION_STRIP_UNKNOWN" default:"true"`
	AbortEarly         bool `envconfig:"BOQ_VALIDATION_ABORT_EARLY" default:"false"`
	Transform          bool `envconfig:"BOQ_VALIDATION_TRANSFORM" default:"true"`
	SanitizeFirst      bool `envconfig:"BOQ_VALIDATION_SANITIZE_FIRST" default:"true"`
	MaxStringLength    int  `envconfig:"BOQ_VALIDATION_MAX_STRING_LENGTH" default:"1000"`
	AllowHTML          bool `envconfig:"BOQ_VALIDATION_ALLOW_HTML" default:"false"`
	ShowWarnings       bool `envconfig:"BOQ_VALIDATION_SHOW_WARNINGS" default:"true"`
	FocusFirstError    bool `envconfig:"BOQ_VALIDATION_FOCUS_FIRST_ERROR" default:"true"`
	ValidateOnChange   bool `envconfig:"BOQ_VALIDATION_VALIDATE_ON_CHANGE" default:"true"`
	ValidateOnBlur     bool `envconfig:"BOQ_VALIDATION_VALIDATE_ON_BLUR" default:"true"`
	RevalidateOnChange bool `envconfig:"BOQ_VALIDATION_REVALIDATE_ON_CHANGE" default:"true"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"BOQ_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"BOQ_METRICS_PATH" default:"/metrics"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BOQ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	MaxAge         int      `envconfig:"BOQ_CORS_MAX_AGE" default:"300"`
}

type ImportConfig struct {
	StopOnError bool `envconfig:"BOQ_IMPORT_STOP_ON_ERROR" default:"false"`
}

func (db *DBConfig) normalize() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DBDriverSQLite:
		if db.DSN != "" {
			return nil
		}
		if strings.TrimSpace(db.Path) == "" {
			return fmt.Errorf("either %s or %s is required for sqlite", EnvDBDSN, EnvDBPath)
		}
		db.DSN = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", db.Path)
		return nil
	case DBDriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q (expected %s or %s)", EnvDBDriver, db.Driver, DBDriverSQLite, DBDriverPostgres)
	}
}
