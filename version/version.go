package version

import "runtime/debug"

// You can set the version at build time using something like:
// go build -ldflags "-X github.com/w4on/w4on/version.Version=$(git describe --dirty)"

var Version string

var Hash = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		modified := false
		revision := ""
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.modified":
				modified = setting.Value == "true"
			case "vcs.revision":
				revision = setting.Value
			}
		}
		if len(revision) > 7 {
			revision = revision[:7]
		}
		if revision != "" && modified {
			return revision + "-dirty"
		}
		return revision
	}
	return ""
}()

// VersionOrHash is the version given at build time, or the VCS revision when
// none was given, or "dev" when neither is known.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "dev"
}()
