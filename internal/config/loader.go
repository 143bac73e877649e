package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// setDefaults also binds env-only keys (viper resolves APP_* overrides during
// Unmarshal only for keys it already knows about).
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "club-stats-service")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "127.0.0.1")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 300)
	v.SetDefault("postgres.max_conn_idle_time", 60)
	v.SetDefault("postgres.health_check_period", 30)
	v.SetDefault("postgres.migrate", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_minutes", 60)

	v.SetDefault("query.max_result_groups", 1000)
	v.SetDefault("query.timeout_seconds", 10)
}
