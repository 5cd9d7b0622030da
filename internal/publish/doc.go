// Package publish extracts the history of one directory with splitsh-lite and force
// pushes the resulting commit to the split's remote branch.
package publish
