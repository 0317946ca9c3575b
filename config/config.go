// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/policy"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath = pflag.String("config", "config.toml", "Path to the config file")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
	validDBDrivers    = []string{"sqlite", "postgres"}
	validCacheTypes   = []string{"memory", "redis"}
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

	if err := Load(*configPath); err != nil {
		return err
	}

	if v.GetString("security.jwt_secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config file.")
		os.Exit(0)
	}

	return nil
}

// Load reads the config file at path, applies defaults and environment
// overrides and validates the result. Env vars use the key with dots
// replaced by underscores, e.g. SECURITY_JWT_SECRET
func Load(path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s is missing", path)
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if err := validate(); err != nil {
		return err
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.variant", policy.Adult.Name)

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("security.token_ttl", "720h")
	v.SetDefault("security.rate_limit", 10)

	v.SetDefault("turnstile.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_root", "data")

	v.SetDefault("s3.region", "us-east-1")

	v.SetDefault("upload.max_size", 50)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("activity.ttl", "24h")
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if _, err := policy.VariantByName(v.GetString("app.variant")); err != nil {
		return fmt.Errorf("invalid app.variant, %w", err)
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetDuration("security.token_ttl") <= 0 {
		return errors.New("security.token_ttl must be a positive duration")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	switch v.GetString("storage.type") {
	case "s3":
		{
			if v.GetString("s3.access_key_id") == "" {
				return errors.New("access key id can't be empty")
			}
			if v.GetString("s3.secret_access_key") == "" {
				return errors.New("secret access key can't be empty")
			}
		}
	case "local":
		{
			if v.GetString("storage.local_root") == "" {
				return errors.New("storage.local_root can't be empty")
			}
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if !slices.Contains(validCacheTypes, v.GetString("cache.type")) {
		return errors.New("invalid cache type provided")
	}

	if v.GetString("cache.type") == "redis" && v.GetString("cache.redis_addr") == "" {
		return errors.New("cache.redis_addr can't be empty when using the redis cache")
	}

	if v.GetDuration("activity.ttl") <= 0 {
		return errors.New("activity.ttl must be a positive duration")
	}

	if v.GetBool("turnstile.enabled") && v.GetString("turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}

// Variant returns the configured site variant. Only valid after Load
func Variant() *policy.Variant {
	variant, err := policy.VariantByName(v.GetString("app.variant"))
	if err != nil {
		return policy.Adult
	}

	return variant
}

// Buckets maps every bucket the variant offers to its physical bucket name.
// Buckets missing from storage.buckets keep their own name
func Buckets(variant *policy.Variant) map[model.Bucket]string {
	overrides := v.GetStringMapString("storage.buckets")

	out := make(map[model.Bucket]string, len(variant.Buckets))
	for _, b := range variant.Buckets {
		name := string(b)
		if o := overrides[string(b)]; o != "" {
			name = o
		}

		out[b] = name
	}

	return out
}
