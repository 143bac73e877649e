package config

import (
	"github.com/courtside/club-stats-service/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Auth     AuthConfig          `mapstructure:"auth"`
	Query    QueryConfig         `mapstructure:"query"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	Migrate           bool   `mapstructure:"migrate"`
}

type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// QueryConfig bounds the statistics query subsystem. MaxResultGroups caps the
// number of groups a single response may carry; TimeoutSeconds bounds the
// persistence fetch for one request.
type QueryConfig struct {
	MaxResultGroups int `mapstructure:"max_result_groups"`
	TimeoutSeconds  int `mapstructure:"timeout_seconds"`
}
