package scribe

import _ "embed"

// Version is the library version, embedded from the VERSION file so release
// tooling can bump it without touching Go source. Trim before display.
//
//go:embed VERSION
var Version string
