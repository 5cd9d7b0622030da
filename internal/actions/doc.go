// Package actions emits GitHub Actions workflow commands such as failure annotations.
package actions
