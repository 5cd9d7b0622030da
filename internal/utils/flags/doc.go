// Package flags provides helpers for binding and inspecting Cobra flags shared by subsplit commands.
package flags
