// Package buildinfo reports how the running binary was built.
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/five82/assemble-logs/internal/buildinfo.Version=..."
// at release time. Empty values fall back to what the toolchain embedded.
var (
	Version = ""
	Commit  = ""
	Date    = ""
	Profile = ""
)

// Info describes one build.
type Info struct {
	Application string
	Version     string
	Commit      string
	BuildDate   string
	Profile     string
	Features    []string
}

// Read assembles build information for the named application.
func Read(application string) Info {
	info := Info{
		Application: application,
		Version:     Version,
		Commit:      Commit,
		BuildDate:   Date,
		Profile:     Profile,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}

	if info.Version == "" {
		info.Version = "(devel)"
	}
	if info.Commit == "" {
		info.Commit = "NA"
	}
	if info.BuildDate == "" {
		info.BuildDate = "NA"
	}
	if info.Profile == "" {
		info.Profile = "release"
	}
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" {
		info.Version = bi.Main.Version
	}

	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t.Local().Format(time.RFC1123Z)
				}
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		case "-tags":
			info.Features = append(info.Features, strings.Split(s.Value, ",")...)
		case "-race":
			if s.Value == "true" {
				info.Features = append(info.Features, "race")
			}
		case "-gcflags":
			if info.Profile == "" && strings.Contains(s.Value, "-N") {
				info.Profile = "debug"
			}
		}
	}
	if dirty && info.Commit != "" {
		info.Commit += "-dirty"
	}
}

// Write prints the build report, one field per line.
func (i Info) Write(w io.Writer) error {
	features := "none"
	if len(i.Features) > 0 {
		features = strings.Join(i.Features, ", ")
	}
	_, err := fmt.Fprintf(w, "application: %s\nversion: %s\ncommit: %s\nbuild date: %s\nprofile: %s\nfeatures: %s\n",
		i.Application, i.Version, i.Commit, i.BuildDate, i.Profile, features)
	return err
}
