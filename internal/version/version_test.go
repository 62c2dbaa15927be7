package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldVersion, oldCommit, oldBuild })

	Version = "v1.2.0"
	Commit = "0123456789abcdef"
	BuildTime = "2026-01-02T03:04:05Z"

	got := String()
	want := "v1.2.0 (commit: 0123456, built: 2026-01-02T03:04:05Z)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestShortCommit_Short(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "abc"
	if got := shortCommit(); got != "abc" {
		t.Errorf("shortCommit() = %q, want %q", got, "abc")
	}
}

func TestString_Unstamped(t *testing.T) {
	if got := String(); !strings.HasPrefix(got, Version+" (commit: ") {
		t.Errorf("String() = %q, want prefix %q", got, Version+" (commit: ")
	}
}
