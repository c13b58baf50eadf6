package version

import (
	"fmt"
	"runtime"
)

// Stamped by the release build, e.g.
//
//	go build -ldflags "-X github.com/teranos/avrflags/version.Version=v0.3.0"
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev" // Release tag, "dev" for local builds
)

// Info is what `avrflags version --json` prints
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get collects the stamped build values and the running Go platform
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("avrflags %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short trims the commit hash to seven characters
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
