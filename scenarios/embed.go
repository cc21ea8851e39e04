// Package scenarios embeds the default public scenarios, one file per
// exercise.
package scenarios

import "embed"

// FS holds the *.yaml scenario files.
//
//go:embed *.yaml
var FS embed.FS
