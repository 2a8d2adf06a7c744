// Package version reports the bizdeck build version.
package version

// version is set at build time with
// -ldflags "-X github.com/rshade/bizdeck/pkg/version.version=v1.2.3".
var version = "dev" //nolint:gochecknoglobals // Set by the linker

// GetVersion returns the build version.
func GetVersion() string {
	return version
}
