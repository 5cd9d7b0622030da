// Package splits loads the list of sub-splits a monorepo publishes.
//
// The configuration document carries a top-level "sub-splits" list. Each entry names
// the split, the git URL of its target repository and the directory prefix that is
// extracted from the monorepo history. JSON is the documented format; YAML is
// accepted as well.
package splits
