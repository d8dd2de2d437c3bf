// Contains various utility functions related to logging.

package cli

import (
	"os"
	"path"
	"regexp"

	climain "github.com/peterebden/go-cli-init/v5"
	"golang.org/x/crypto/ssh/terminal"
	"gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("cli")

// StdErrIsATerminal is true if the process' stderr is an interactive TTY.
var StdErrIsATerminal = terminal.IsTerminal(int(os.Stderr.Fd()))

// StdOutIsATerminal is true if the process' stdout is an interactive TTY.
var StdOutIsATerminal = terminal.IsTerminal(int(os.Stdout.Fd()))

// StripAnsi is a regex to find & replace ANSI console escape sequences.
var StripAnsi = regexp.MustCompile("\x1b[^m]+m")

// logLevel, fileLogLevel and fileBackend back an optional secondary file
// sink; dtcore has no interactive progress display to layer over stderr,
// so this keeps only a plain two-backend (stderr + optional file) shape.
var logLevel = logging.WARNING
var fileLogLevel = logging.WARNING
var fileBackend logging.Backend

// A Verbosity is used as a flag to define logging verbosity.
type Verbosity = climain.Verbosity

// InitLogging initialises logging to stderr at the given verbosity.
func InitLogging(verbosity Verbosity) {
	logLevel = logging.Level(verbosity)
	setLogBackend(logging.NewLogBackend(os.Stderr, "", 0))
}

// InitFileLogging additionally logs to logFile at logFileLevel, on top of
// whatever InitLogging already set up for stderr.
func InitFileLogging(logFile string, logFileLevel Verbosity) {
	fileLogLevel = logging.Level(logFileLevel)
	if err := os.MkdirAll(path.Dir(logFile), os.ModeDir|0775); err != nil {
		log.Fatalf("Error creating log file directory: %s", err)
	}
	file, err := os.Create(logFile)
	if err != nil {
		log.Fatalf("Error opening log file: %s", err)
	}
	fileBackend = logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), logFormatter(false))
	setLogBackend(logging.NewLogBackend(os.Stderr, "", 0))
	AtExit(func() {
		fileBackend = nil
		file.Close()
	})
}

func logFormatter(coloured bool) logging.Formatter {
	formatStr := "%{time:15:04:05.000} %{level:7s}: %{message}"
	if coloured {
		formatStr = "%{color}" + formatStr + "%{color:reset}"
	}
	return logging.MustStringFormatter(formatStr)
}

func setLogBackend(backend logging.Backend) {
	stderr := logging.AddModuleLevel(logging.NewBackendFormatter(backend, logFormatter(StdErrIsATerminal)))
	stderr.SetLevel(logLevel, "")
	if fileBackend == nil {
		logging.SetBackend(stderr)
		return
	}
	file := logging.AddModuleLevel(fileBackend)
	file.SetLevel(fileLogLevel, "")
	logging.SetBackend(stderr, file)
}
