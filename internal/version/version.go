package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/longkey1/healthbot/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information. Binaries built with `go install` carry
// no ldflags; their module version is used instead.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Short(),
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the version number only.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// String renders the build information for a terminal.
func (b BuildInfo) String() string {
	return fmt.Sprintf("healthbot %s\n  commit:     %s\n  built:      %s\n  go version: %s %s",
		b.Version, b.Commit, b.BuildTime, b.GoVersion, b.Platform)
}
