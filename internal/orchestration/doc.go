// Package orchestration runs a complete sub-split publication: provision the split
// binary once, load the configured splits, then register each split's remote and
// publish it concurrently. One split failing never stops its siblings; every failure
// is reported together once all splits finish.
package orchestration
