package version

import "runtime/debug"

// These vars are set at build time via:
//
//	go build -ldflags "-X rosterdb/version.Tag=v1.0.0 -X rosterdb/version.GitCommit=abc1234 -X rosterdb/version.BuildTime=2026-10-01T00:00:00Z"
var (
	Tag       = "dev"
	GitCommit = "" // empty = auto-detect from build info
	BuildTime = "" // empty = auto-detect from build info
)

// Info is the resolved build identity.
type Info struct {
	Tag       string
	Commit    string
	BuildTime string
	Modified  bool
}

// Get resolves the build identity, falling back to VCS build settings
// when the ldflags were not set.
func Get() Info {
	info := Info{Tag: Tag, Commit: GitCommit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" && len(s.Value) >= 8 {
					info.Commit = s.Value[:8]
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String is reported as server_version on connect.
func String() string {
	info := Get()
	commit := info.Commit
	if info.Modified {
		commit += "-dirty"
	}
	return "rosterdb " + info.Tag + " (commit " + commit + ", built " + info.BuildTime + ")"
}
