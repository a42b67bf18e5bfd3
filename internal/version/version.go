// Package version reports build information for hostctl.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"text/tabwriter"
)

// Set via -ldflags "-X github.com/opmodel/hostctl/internal/version.Version=...".
var (
	Version   = "v0.0.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// CUESDKVersion is the cuelang.org/go release the serving schema is
// compiled with. It is used when build info does not list the module.
const CUESDKVersion = "v0.15.4"

const cueModule = "cuelang.org/go"

// Info describes the running binary.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit"`
	BuildDate     string `json:"buildDate"`
	GoVersion     string `json:"goVersion"`
	Platform      string `json:"platform"`
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the build information. Values not stamped by ldflags are
// filled from the module build info where Go recorded them.
func Get() Info {
	info := Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		CUESDKVersion: CUESDKVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.GitCommit == "":
			info.GitCommit = s.Value
		case s.Key == "vcs.time" && info.BuildDate == "":
			info.BuildDate = s.Value
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path == cueModule && dep.Version != "" && dep.Version != "(devel)" {
			info.CUESDKVersion = dep.Version
		}
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
}

// String renders the info as aligned "key: value" lines.
func (i Info) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "hostctl:\t%s\n", i.Version)
	fmt.Fprintf(tw, "commit:\t%s\n", i.GitCommit)
	fmt.Fprintf(tw, "built:\t%s\n", i.BuildDate)
	fmt.Fprintf(tw, "go:\t%s %s\n", i.GoVersion, i.Platform)
	fmt.Fprintf(tw, "cue sdk:\t%s\n", i.CUESDKVersion)
	_ = tw.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return fmt.Sprintf("hostctl/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}
