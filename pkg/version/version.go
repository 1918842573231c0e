// Package version reports build information. Values are set with -ldflags:
//
//	-X github.com/dl-alexandre/gacl/pkg/version.Version=v1.2.0
package version

import (
	"fmt"
	"runtime"
)

// Name is the binary name
const Name = "gacl"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info describes the running binary
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build information of this binary
func Get() *Info {
	return &Info{
		Name:      Name,
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i *Info) String() string {
	return fmt.Sprintf("%s %s (%s) built %s with %s for %s",
		i.Name, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}

// IsRelease reports whether the binary was built with a release version
func (i *Info) IsRelease() bool {
	return i.Version != "dev" && i.Version != ""
}
