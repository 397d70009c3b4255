// Package version exposes the service version reported by the probe endpoint.
package version

// Version is overridable at build time with -ldflags "-X lostfound/internal/version.Version=...".
var Version = "1.0.0"
