package health

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// BuildInfo describes the running payments build
type BuildInfo struct {
	Version     string    `json:"version"`
	GitCommit   string    `json:"git_commit"`
	BuildTime   string    `json:"build_time"`
	ServiceName string    `json:"service_name"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	ServerTime  time.Time `json:"server_time"`
}

// DefaultBuildInfo is overridden by VERSION, GIT_COMMIT and BUILD_TIME
var DefaultBuildInfo = BuildInfo{
	Version:   "development",
	GitCommit: "unknown",
	BuildTime: "unknown",
	GoVersion: runtime.Version(),
}

func currentBuildInfo(serviceName string) BuildInfo {
	info := DefaultBuildInfo
	info.ServiceName = serviceName
	if v := os.Getenv("VERSION"); v != "" {
		info.Version = v
	}
	if v := os.Getenv("GIT_COMMIT"); v != "" {
		info.GitCommit = v
	}
	if v := os.Getenv("BUILD_TIME"); v != "" {
		info.BuildTime = v
	}
	return info
}

// NewPingHandler answers /ping with the build info
func NewPingHandler(serviceName string) echo.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	info := currentBuildInfo(serviceName)
	info.Hostname = hostname

	return func(c echo.Context) error {
		resp := info
		resp.ServerTime = time.Now()
		return c.JSON(http.StatusOK, resp)
	}
}

// RegisterHealthEndpoints adds the liveness endpoints and, when svc is set, the readiness ones
func RegisterHealthEndpoints(e *echo.Echo, serviceName string, svc *Service) {
	e.GET("/ping", NewPingHandler(serviceName))

	live := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.GET("/health", live)
	e.GET("/healthz", live)

	if svc == nil {
		e.GET("/ready", live)
		return
	}
	RegisterReadinessEndpoints(e, serviceName, currentBuildInfo(serviceName).Version, svc)
}
