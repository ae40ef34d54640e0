package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// These variables are set at build time via -ldflags
var (
	Version   = "dev"     // Set via: -ldflags "-X github.com/robertozapata/portfolio/internal/version.Version=v1.0.0"
	BuildTime = "unknown" // Set via: -ldflags "-X github.com/robertozapata/portfolio/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
	GitCommit = "unknown" // Set via: -ldflags "-X github.com/robertozapata/portfolio/internal/version.GitCommit=$(git rev-parse HEAD)"
)

// APIVersion is the version of the public contact API contract
const APIVersion = "1.0.0"

// BuildInfo contains comprehensive build information
type BuildInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Compiler   string `json:"compiler"`
}

// GetBuildInfo returns complete build information. Without -ldflags the
// commit and time come from the VCS stamp go build embeds, when present.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:    Version,
		APIVersion: APIVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Compiler:   runtime.Compiler,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch {
			case setting.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = setting.Value
			case setting.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = setting.Value
			}
		}
	}
	return info
}

// Info returns a formatted version info string for CLI output
func Info() string {
	buildInfo := GetBuildInfo()
	if buildInfo.BuildTime == "unknown" {
		return fmt.Sprintf("%s (development build)", buildInfo.Version)
	}

	buildTime, err := time.Parse(time.RFC3339, buildInfo.BuildTime)
	if err != nil {
		return fmt.Sprintf("%s (built %s)", buildInfo.Version, buildInfo.BuildTime)
	}

	commit := buildInfo.GitCommit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("%s (built %s, commit %s)",
		buildInfo.Version,
		buildTime.UTC().Format("2006-01-02 15:04:05 UTC"),
		commit)
}

// ServerInfo is the build information a server reports on /health
type ServerInfo struct {
	Status  string    `json:"status"`
	Build   BuildInfo `json:"build"`
	Checked time.Time `json:"-"`
}

// FetchServerInfo asks a portfolio server for its health and build
func FetchServerInfo(ctx context.Context, serverURL string) (*ServerInfo, error) {
	healthURL := strings.TrimRight(serverURL, "/") + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var info ServerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	info.Checked = time.Now()
	return &info, nil
}

// CompareVersions orders two semantic versions, with or without the "v"
// prefix. It returns -1, 0 or 1. Anything that is not a version, such as
// "dev", sorts before every release.
func CompareVersions(v1, v2 string) int {
	return semver.Compare(canonical(v1), canonical(v2))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsUpdateAvailable reports whether serverVersion is newer than clientVersion
func IsUpdateAvailable(clientVersion, serverVersion string) bool {
	return CompareVersions(clientVersion, serverVersion) < 0
}
