// Package cli constructs the subsplit command-line interface. It wires the Cobra
// command hierarchy (publish, provision and list), the Viper-backed configuration
// loader and zap logging, and reports top-level failures as GitHub Actions
// annotations when running inside a workflow.
package cli
