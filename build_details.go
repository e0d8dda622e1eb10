package oasdoc

import "fmt"

// Set via -ldflags "-X github.com/erraggy/oasdoc.version=..." at release.
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the release version, or "dev" for source builds.
func Version() string {
	return version
}

// Commit returns the git revision the binary was built from, or "unknown".
func Commit() string {
	return commit
}

// BuildInfo returns the one-line description printed by "oasdoc version".
func BuildInfo() string {
	return fmt.Sprintf("oasdoc %s (commit %s)", version, commit)
}
