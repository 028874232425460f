package config

import (
	"time"

	"github.com/spf13/viper"
)

// Environment selects the deployment mode. The cookie security policy is
// derived from it instead of comparing raw environment strings at call sites.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Audit
		Tasks
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		Env                      Environment
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Auth struct {
		// JWTSecret signs session tokens. Required: the token issuer
		// refuses to operate without it.
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}

	Audit struct {
		RetentionDays   int
		CleanupSchedule string // cron format
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	CORS struct {
		Origin string
	}
)

// IsProduction reports whether the process runs with the production
// cookie/transport policy.
func (g Global) IsProduction() bool {
	return g.Env == EnvProduction
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", 4000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_env", string(EnvDevelopment))
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "") // required, no fallback is generated
	v.SetDefault("auth_token_ttl", DefaultTokenTTL.String())
	v.SetDefault("auth_bcrypt_cost", DefaultBcryptCost)

	// Audit defaults
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("cors_origin", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Env:                      Environment(v.GetString("APP_ENV")),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:  v.GetString("AUTH_JWT_SECRET"),
			TokenTTL:   v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		CORS: CORS{
			Origin: v.GetString("CORS_ORIGIN"),
		},
	}
}
