// Package core holds the data model shared by every other package in this
// module: source locations, directives, substitutions, configuration and
// the final test result. Apart from LookPath's executable search, it
// carries no logic beyond what's needed to describe that data, separating
// data definitions from the packages that act on them.
package core

import "gopkg.in/op/go-logging.v1"

// log is this package's logger, following src/cli/logging's
// "one MustGetLogger call per package" convention.
var log = logging.MustGetLogger("core")
