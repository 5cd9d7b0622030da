// Package ui renders command lifecycle events for people reading a terminal or
// a CI log, while structured telemetry keeps flowing through zap fields.
package ui
