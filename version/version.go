// Package version exposes build information injected at link time.
package version

//nolint:gochecknoglobals // set via -ldflags "-X"
var (
	name    = "wavewizard"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the VCS revision the binary was built from.
func Commit() string {
	return commit
}
