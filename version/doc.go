// Package version reports the speechkit build.
//
// Version and BuildTime are set at link time; the commit and dirty flag
// come from the VCS stamp Go embeds in the binary:
//
//	go build -ldflags "-X github.com/kbukum/speechkit/version.Version=0.3.0" ./cmd/speechkit
package version
