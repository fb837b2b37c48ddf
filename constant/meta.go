// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// EduCast is the canonical application identifier used for filesystem paths and CLI branding.
	EduCast = "educast"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string sent to the EduCast backend.
	UserAgent = "educast-cli/" + Version
)
