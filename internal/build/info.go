package build

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const devVersion = "v0.1.0-dev"

// Build information. Version, Commit and BuildTime are set with -ldflags.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	StartTime = time.Now()
)

//nolint:gochecknoinits // init version.
func init() {
	if strings.TrimSpace(Version) == "" {
		Version = devVersion
	}
}

// Info contains build information.
type Info struct {
	Version    string `json:"version"`
	Prerelease bool   `json:"prerelease"`
	Commit     string `json:"commit,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Uptime     string `json:"uptime"`
}

// Semver parses Version.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(Version)
}

// IsNewer reports whether latest is a newer version than current. Unparsable
// versions are never newer.
func IsNewer(current, latest string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}

	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}

	return lat.GreaterThan(cur)
}

// GetBuildInfo returns build information.
func GetBuildInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		Platform:  Platform,
		Uptime:    time.Since(StartTime).Truncate(time.Second).String(),
	}

	if v, err := Semver(); err == nil {
		info.Prerelease = v.Prerelease() != ""
	}

	return info
}

// String returns string representation of build info.
func (i Info) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Version: %s\n", i.Version))

	if i.Commit != "" {
		sb.WriteString(fmt.Sprintf("Commit: %s\n", i.Commit))
	}

	if i.BuildTime != "" {
		sb.WriteString(fmt.Sprintf("Build Time: %s\n", i.BuildTime))
	}

	sb.WriteString(fmt.Sprintf("Go Version: %s\n", i.GoVersion))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", i.Platform))
	sb.WriteString(fmt.Sprintf("Uptime: %s\n", i.Uptime))

	return sb.String()
}
