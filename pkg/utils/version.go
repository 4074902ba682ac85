// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "runtime/debug"

// Set at release time through -ldflags -X.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// Build describes the running binary.
type Build struct {
	Version   string
	Sha       string
	Buildtime string
	GoVersion string
}

// CurrentBuild reports the ldflags values. When they were not injected, as
// with go install, the module version and VCS stamp from the Go build info
// fill in.
func CurrentBuild() Build {
	b := Build{Version: Version, Sha: Sha, Buildtime: Buildtime}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.GoVersion = info.GoVersion

	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Sha == "HEAD" {
				b.Sha = s.Value
			}
		case "vcs.time":
			if b.Buildtime == "dev" {
				b.Buildtime = s.Value
			}
		}
	}
	return b
}
