// Package config handles loading and validating homebar configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with HOMEBAR_* environment variables
//   - Struct-tag validation (go-playground/validator) plus cross-section checks
//   - Default value handling
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The webhook binds to 127.0.0.1 by default; it has no authentication
//
// Usage:
//
//	cfg, err := config.Load(config.DefaultPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.WebhookAddr())
package config
