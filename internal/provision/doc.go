// Package provision downloads the splitsh-lite binary from its GitHub releases when it
// is not already present at the configured path.
//
// An existing file is trusted as-is; its version and integrity are not verified.
package provision
