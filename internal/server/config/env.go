package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variable names. JWT_SECRET and CORS_ORIGINS are read too,
// with the DATALYN_ names taking precedence.
const (
	EnvHTTPAddr           = "DATALYN_HTTP_ADDR"
	EnvGRPCAddr           = "DATALYN_GRPC_ADDR"
	EnvDatabaseDSN        = "DATALYN_DATABASE_DSN"
	EnvSecretKey          = "DATALYN_SECRET_KEY"
	EnvTokenValidity      = "DATALYN_TOKEN_VALIDITY"
	EnvStoreTimeout       = "DATALYN_STORE_TIMEOUT"
	EnvEnvironment        = "DATALYN_ENV"
	EnvLogFormat          = "DATALYN_LOG_FORMAT"
	EnvLogLevel           = "DATALYN_LOG_LEVEL"
	EnvPasswordHasher     = "DATALYN_PASSWORD_HASHER"
	EnvBcryptCost         = "DATALYN_BCRYPT_COST"
	EnvCORSOrigins        = "DATALYN_CORS_ORIGINS"
	EnvRateLimitPerMinute = "DATALYN_RATE_LIMIT_PER_MINUTE"
	EnvRateLimitBurst     = "DATALYN_RATE_LIMIT_BURST"
	EnvHealthInterval     = "DATALYN_HEALTH_INTERVAL"
	EnvOTLPEndpoint       = "DATALYN_OTLP_ENDPOINT"
	EnvOTLPInsecure       = "DATALYN_OTLP_INSECURE"

	legacyEnvSecretKey   = "JWT_SECRET"
	legacyEnvCORSOrigins = "CORS_ORIGINS"
)

// parseEnv overlays values from environment variables. Unset or empty
// variables leave the current setting untouched.
func parseEnv(config *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	lookup := func(names ...string) string {
		for _, n := range names {
			if v := strings.TrimSpace(getenv(n)); v != "" {
				return v
			}
		}
		return ""
	}

	setString(&config.EndpointAddrHTTP, lookup(EnvHTTPAddr))
	setString(&config.EndpointAddrGRPC, lookup(EnvGRPCAddr))
	setString(&config.DatabaseDSN, lookup(EnvDatabaseDSN))
	setString(&config.SecretKey, lookup(EnvSecretKey, legacyEnvSecretKey))
	setString(&config.Environment, lookup(EnvEnvironment))
	setString(&config.LogFormat, lookup(EnvLogFormat))
	setString(&config.LogLevel, lookup(EnvLogLevel))
	setString(&config.PasswordHasher, lookup(EnvPasswordHasher))
	setString(&config.OTLPEndpoint, lookup(EnvOTLPEndpoint))

	if v := lookup(EnvCORSOrigins, legacyEnvCORSOrigins); v != "" {
		config.CORSOrigins = splitList(v)
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{EnvTokenValidity, &config.TokenValidityDuration},
		{EnvStoreTimeout, &config.StoreTimeout},
		{EnvHealthInterval, &config.HealthInterval},
	}
	for _, d := range durations {
		v := lookup(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvBcryptCost, &config.BcryptCost},
		{EnvRateLimitPerMinute, &config.RateLimitPerMinute},
		{EnvRateLimitBurst, &config.RateLimitBurst},
	}
	for _, i := range ints {
		v := lookup(i.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.name, err)
		}
		*i.dst = parsed
	}

	if v := lookup(EnvOTLPInsecure); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOTLPInsecure, err)
		}
		config.OTLPInsecure = b
	}

	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
