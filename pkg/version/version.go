// Package version holds the build version, overridable with
// -ldflags "-X nanonav/pkg/version.Version=...".
package version

import "runtime/debug"

// Version is the application version.
var Version = "v0.3.0"

var readBuildInfo = debug.ReadBuildInfo

// String returns Version with the VCS revision the binary was built from,
// e.g. "v0.3.0+1a2b3c4" or "v0.3.0+1a2b3c4.dirty". Without VCS stamping it
// is just Version.
func String() string {
	info, ok := readBuildInfo()
	if !ok {
		return Version
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return Version
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += ".dirty"
	}
	return Version + "+" + rev
}
