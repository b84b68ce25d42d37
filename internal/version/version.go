package version

import "fmt"

// Overridden via ldflags when building a release.
var (
	Version = "unknown"
	Commit  = "unknown"
)

var FullVersion = fmt.Sprintf("%s (%s)", Version, Commit)
