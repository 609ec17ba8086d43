// Package logging provides structured logging for homebar.
//
// It wraps log/slog so every entry carries service and version fields and
// so components can share one handler configured from config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	registry.SetLogger(logger.Component("group"))
//	logger.Info("webhook listening", "addr", cfg.WebhookAddr())
//
// Never log broker passwords or InfluxDB tokens.
package logging
