package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v1.4.0", "v1.3.9", 1},
		{"1.3.9", "v1.4.0", -1},
		{"v2.0.0", "2.0.0", 0},
		{"v1.10.0", "v1.9.0", 1},
		{"1.2", "1.2.0", 0},
		{"dev", "v0.1.0", -1},
		{"v0.1.0", "dev", 1},
		{"dev", "dev", 0},
		{"v1.0.0-rc.1", "v1.0.0", -1},
		{"v1.0.0-alpha", "v1.0.0-beta", -1},
		{"v1.0.0+build.5", "v1.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.v1+" vs "+tt.v2, func(t *testing.T) {
			if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d; want %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func TestIsUpdateAvailable(t *testing.T) {
	if !IsUpdateAvailable("v1.0.0", "v1.1.0") {
		t.Error("newer server version not reported")
	}
	if IsUpdateAvailable("v1.1.0", "v1.1.0") || IsUpdateAvailable("v1.2.0", "v1.1.0") {
		t.Error("update reported for same or older server")
	}
	if !IsUpdateAvailable("dev", "v1.0.0") {
		t.Error("development client should see releases as updates")
	}
}

func TestInfo(t *testing.T) {
	origTime, origCommit := BuildTime, GitCommit
	defer func() { BuildTime, GitCommit = origTime, origCommit }()

	BuildTime = "unknown"
	if got := Info(); !strings.Contains(got, "development build") {
		t.Errorf("Info() = %q; want development build", got)
	}

	BuildTime = "2024-05-01T10:00:00Z"
	GitCommit = "abc"
	if got := Info(); !strings.Contains(got, "2024-05-01 10:00:00 UTC") || !strings.Contains(got, "commit abc") {
		t.Errorf("Info() = %q", got)
	}
}

func TestFetchServerInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","build":{"version":"v1.2.0","api_version":"1.0.0"}}`))
	}))
	defer srv.Close()

	info, err := FetchServerInfo(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("FetchServerInfo() error = %v", err)
	}
	if info.Status != "ok" || info.Build.Version != "v1.2.0" {
		t.Errorf("FetchServerInfo() = %+v", info)
	}
}
