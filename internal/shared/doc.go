// Package shared declares the collaborator interfaces used across subsplit services.
package shared
