package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/datalyn/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for file decoding. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted.
// Zero values leave the current setting untouched.
type FileConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	StoreTimeout          timex.Duration `json:"store_timeout" yaml:"store_timeout"`
	Environment           string         `json:"environment" yaml:"environment"`
	LogFormat             string         `json:"log_format" yaml:"log_format"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
	PasswordHasher        string         `json:"password_hasher" yaml:"password_hasher"`
	BcryptCost            int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	CORSOrigins           []string       `json:"cors_origins" yaml:"cors_origins"`
	RateLimitPerMinute    int            `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	RateLimitBurst        int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	HealthInterval        timex.Duration `json:"health_interval" yaml:"health_interval"`
	OTLPEndpoint          string         `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPInsecure          *bool          `json:"otlp_insecure" yaml:"otlp_insecure"`
}

// parseFile overlays values from a JSON or YAML file onto config. The
// format is chosen by extension (.yaml/.yml, anything else is JSON).
// An empty path loads nothing.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &FileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)

	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.HealthInterval.Duration != 0 {
		config.HealthInterval = c.HealthInterval.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RateLimitPerMinute != 0 {
		config.RateLimitPerMinute = c.RateLimitPerMinute
	}
	if c.RateLimitBurst != 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.OTLPInsecure != nil {
		config.OTLPInsecure = *c.OTLPInsecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
