// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers embedded defaults, an optional configuration file and
// SUBSPLIT_* environment variables through Viper. LoggerFactory builds the zap
// loggers used across the CLI. LineWriter keeps command output line-atomic.
package utils
