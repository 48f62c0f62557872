// Package version reports the build identity of the ventas binary.
package version

import "runtime/debug"

// version is overridden at link time:
//
//	go build -ldflags "-X github.com/vinodismyname/ventasxcel/pkg/version.version=v1.2.0"
var version = "dev"

// Version returns the ldflags version, the module version when installed with
// go install, or "dev".
func Version() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return fromModule(info.Main.Version)
	}
	return version
}

// Revision returns the short VCS revision stamped into the binary, with a
// "-dirty" suffix for modified trees, or "" when none was recorded.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}

func fromModule(v string) string {
	if v == "" || v == "(devel)" {
		return "dev"
	}
	return v
}

func revision(settings []debug.BuildSetting) string {
	var rev string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
