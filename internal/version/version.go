// Package version holds build metadata for the coop tools.
package version

import "runtime/debug"

// Version, Commit and Date are set at build time with -ldflags "-X ...".
var (
	Version = "0.1.0-dev"
	Commit  = ""
	Date    = ""
)

// String returns the version, followed by the commit when it is known.
func String() string {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return Version + " (" + commit + ")"
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
