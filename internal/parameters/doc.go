// Package parameters resolves named run inputs such as "config-path" from an ordered
// list of sources: explicitly set command-line flags, GitHub Actions inputs
// (INPUT_<NAME> environment variables) and finally application configuration.
package parameters
