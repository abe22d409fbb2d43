// Package buildinfo reports the version of the running chronify binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// These values are injected via -ldflags -X for release binaries.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const defaultModulePath = "github.com/aidanlsb/chronify"

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

var readBuildInfo = debug.ReadBuildInfo

// Current combines the toolchain's embedded build info with any ldflags
// values. Toolchain values win; ldflags fill the gaps.
func Current() Info {
	info := Info{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		applyLdflags(&info)
		return info
	}

	if bi.Main.Path != "" {
		info.ModulePath = bi.Main.Path
	}
	info.Version = normalizeVersion(bi.Main.Version)
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	if v := setting(bi, "GOOS"); v != "" {
		info.GOOS = v
	}
	if v := setting(bi, "GOARCH"); v != "" {
		info.GOARCH = v
	}
	info.Commit = setting(bi, "vcs.revision")
	info.CommitTime = setting(bi, "vcs.time")
	info.Modified = strings.EqualFold(setting(bi, "vcs.modified"), "true")

	applyLdflags(&info)
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func setting(bi *debug.BuildInfo, key string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func applyLdflags(info *Info) {
	if info.Version == "devel" && Version != "" {
		info.Version = normalizeVersion(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
}
