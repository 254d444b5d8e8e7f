// Package config loads runtime configuration for the Datalyn CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config.
//  3. Global command-line flags and DATALYN_* environment variables,
//     applied by the CLI on top of the loaded Config.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8001",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "token_dir": ".datalyn"
//	}
package config
