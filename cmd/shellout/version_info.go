package main

import (
	"runtime/debug"
)

const shortRevisionLength = 7

var readBuildInfo = debug.ReadBuildInfo

// initVersion fills in the version for `go install` builds, which GoReleaser
// did not stamp. Development builds get the VCS revision appended.
func initVersion() {
	if version != defaultVersion {
		return
	}

	info, ok := readBuildInfo()
	if !ok || info == nil {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
		return
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			revision := setting.Value
			if len(revision) > shortRevisionLength {
				revision = revision[:shortRevisionLength]
			}
			version = defaultVersion + "+" + revision
			return
		}
	}
}
