// Package execshell runs the external tools subsplit depends on.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and converts
// non-zero exits into CommandFailedError values that keep the exit code, so
// callers can branch on documented tool exit codes instead of output text.
// OSCommandRunner is the os/exec backed runner used outside of tests.
package execshell
