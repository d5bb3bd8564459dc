// Package lib embeds the standard prelude loaded before every program.
package lib

import _ "embed"

// Base is the source of lib/base.scm, compiled and run against a fresh
// global table before any user code, exactly as the system this was
// distilled from loads "./lib/base.scm" ahead of its command-line
// argument.
//
//go:embed base.scm
var Base string
