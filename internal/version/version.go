// Package version exposes build information for the service.
//
// The variables below are intended to be overridden at build time with
// -ldflags, e.g.
//
//	go build -ldflags "-X github.com/sphere-wallet/sphere-gateway/internal/version.Version=v1.2.3"
package version

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info holds the build information for the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

// Get returns the build information for the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}
