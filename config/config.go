// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.access_ttl_min", "jwt_access_ttl_min")
	v.BindEnv("jwt.refresh_ttl_days", "jwt_refresh_ttl_days")
	v.BindEnv("jwt.remember_ttl_days", "jwt_remember_ttl_days")

	v.BindEnv("security.rate_limit", "security_rate_limit")
	v.BindEnv("security.session_retention_days", "security_session_retention_days")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "studysprint.db")

	v.SetDefault("jwt.access_ttl_min", 30)
	v.SetDefault("jwt.refresh_ttl_days", 7)
	v.SetDefault("jwt.remember_ttl_days", 30)

	v.SetDefault("security.rate_limit", 60)
	v.SetDefault("security.session_retention_days", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("database.driver must be either sqlite or postgres")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("no database.dsn provided")
	}

	if v.GetInt("jwt.access_ttl_min") <= 0 {
		return errors.New("jwt.access_ttl_min must be bigger than 0")
	}

	if v.GetInt("jwt.refresh_ttl_days") <= 0 {
		return errors.New("jwt.refresh_ttl_days must be bigger than 0")
	}

	if v.GetInt("jwt.remember_ttl_days") < v.GetInt("jwt.refresh_ttl_days") {
		return errors.New("jwt.remember_ttl_days can't be shorter than jwt.refresh_ttl_days")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetString("jwt.secret") == "" {
		zap.L().Warn("No JWT secret set. Tokens will be signed with a generated one and won't survive a restart")
		v.Set("jwt.secret", genSecret())
	}

	return nil
}
