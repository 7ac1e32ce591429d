package nfalab

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the released version of nfalab.
var Version = strings.TrimSpace(rawVersion)
