package needle

import "runtime/debug"

// Name is the program name reported by VersionInfo.
const Name = "needle"

// Version is overridden at link time with -ldflags "-X github.com/gogpu/needle.Version=...".
var Version = ""

// VersionInfo returns "needle <version>". Without a linked version it falls
// back to the module version recorded in the build info, then to "devel".
func VersionInfo() string {
	return Name + " " + resolveVersion()
}

func resolveVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}
