// Package version carries build information injected by the linker, for
// example
//
//	go build -ldflags "-X github.com/Axil12/ws2812b-christmas-strip/version.GitHash=$(git rev-parse HEAD)"
package version

var (
	// BuildTime is the time the binary was built
	BuildTime = "unknown"
	// GitHash is the commit the binary was built from
	GitHash = "unknown"
)
