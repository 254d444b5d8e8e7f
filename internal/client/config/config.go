package config

import "time"

// Config holds runtime settings for the Datalyn CLI.
//
// Fields:
//   - ServerURL: base URL of the JSON API.
//   - GRPCAddr: host:port of the gRPC health endpoint.
//   - RequestTimeout: bound for a single HTTP call.
//   - TokenDir: where the session token is cached between invocations.
type Config struct {
	ServerURL      string
	GRPCAddr       string
	RequestTimeout time.Duration
	TokenDir       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8001"
	c.GRPCAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.TokenDir = ".datalyn"
}

// LoadConfig constructs a Config from defaults overlaid with the JSON file
// at path. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
