package buildinfo

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func TestRead_Fallbacks(t *testing.T) {
	info := Read("assemble-logs")
	if info.Application != "assemble-logs" {
		t.Fatalf("Application = %q", info.Application)
	}
	for name, value := range map[string]string{
		"Version":   info.Version,
		"Commit":    info.Commit,
		"BuildDate": info.BuildDate,
		"Profile":   info.Profile,
	} {
		if value == "" {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRead_LinkerValuesWin(t *testing.T) {
	saved := [4]string{Version, Commit, Date, Profile}
	t.Cleanup(func() { Version, Commit, Date, Profile = saved[0], saved[1], saved[2], saved[3] })

	Version, Commit, Date, Profile = "v1.2.3", "abc123", "Fri, 03 Sep 2021 22:00:00 +0000", "debug"
	info := Read("assemble-logs")
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.BuildDate != Date || info.Profile != "debug" {
		t.Fatalf("Read = %+v, want linker values", info)
	}
}

func TestFromBuildInfo(t *testing.T) {
	var info Info
	fromBuildInfo(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2021-09-03T22:00:00Z"},
			{Key: "-tags", Value: "netgo,osusergo"},
			{Key: "-race", Value: "true"},
			{Key: "-gcflags", Value: "all=-N -l"},
		},
	})

	if info.Version != "v0.4.0" {
		t.Fatalf("Version = %q", info.Version)
	}
	if info.Commit != "deadbeef-dirty" {
		t.Fatalf("Commit = %q, want deadbeef-dirty", info.Commit)
	}
	if info.BuildDate == "" || info.Profile != "debug" {
		t.Fatalf("BuildDate/Profile = %q/%q", info.BuildDate, info.Profile)
	}
	if strings.Join(info.Features, ",") != "netgo,osusergo,race" {
		t.Fatalf("Features = %v", info.Features)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	info := Info{Application: "assemble-logs", Version: "v1", Commit: "NA", BuildDate: "NA", Profile: "release"}
	if err := info.Write(&buf); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	want := "application: assemble-logs\nversion: v1\ncommit: NA\nbuild date: NA\nprofile: release\nfeatures: none\n"
	if buf.String() != want {
		t.Fatalf("Write = %q, want %q", buf.String(), want)
	}
}
