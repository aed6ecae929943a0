package build

import (
	"runtime/debug"
	"time"
)

// Variables injected via ldflags at build time.
// Defaults are used for development builds (go run / go build without flags).
var (
	Version = "DEV"
	Date    = "" // YYYY-MM-DD, empty for dev builds
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "DEV" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	if Date == "" {
		Date = commitDate(info.Settings)
	}
}

// commitDate falls back to the VCS commit time stamped by `go build`.
func commitDate(settings []debug.BuildSetting) string {
	for _, s := range settings {
		if s.Key != "vcs.time" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s.Value)
		if err != nil {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	}
	return ""
}
