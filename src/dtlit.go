package main

import (
	"fmt"
	"os"

	"github.com/please-build/dtcore/src/cli"
	"github.com/please-build/dtcore/src/cli/logging"
	"github.com/please-build/dtcore/src/core"
	"github.com/please-build/dtcore/src/dtcore"
	"github.com/please-build/dtcore/src/report"
)

var log = logging.Log

var opts struct {
	Usage             string        `usage:"dtlit runs the embedded RUN/XFAIL/REQUIRES shell scripts found in one or more test source files and reports PASS/FAIL/UNRESOLVED/UNSUPPORTED/XFAIL for each."`
	Verbosity         cli.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (error, warning, notice, info, debug)"`
	NoExecute         bool          `short:"a" long:"show-script" description:"Print the assembled script without running it"`
	LogFile           string        `long:"log_file" description:"File to additionally log full output to"`
	LogFileLevel      cli.Verbosity `long:"log_file_level" default:"debug" description:"Log level for file output"`
	InteractiveOutput bool          `long:"interactive_output" description:"Show interactive output in a terminal"`
	PlainOutput       bool          `short:"p" long:"plain_output" description:"Don't show interactive output"`
	Args              struct {
		Files []string `positional-arg-name:"files" required:"true" description:"Test source files to run"`
	} `positional-args:"true"`
}

func main() {
	parser := cli.ParseFlagsOrDie("dtlit", "1.0.0", &opts)
	if len(opts.Args.Files) == 0 {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	cli.InitLogging(opts.Verbosity)
	if opts.LogFile != "" {
		cli.InitFileLogging(opts.LogFile, opts.LogFileLevel)
	}

	cfg := &core.Config{
		Environment:       os.Environ(),
		AvailableFeatures: map[string]bool{},
		NoExecute:         opts.NoExecute,
	}

	pretty := cli.PrettyOutput(opts.InteractiveOutput, opts.PlainOutput, opts.Verbosity)

	suite := report.TestSuite{Name: "dtlit"}
	for _, path := range opts.Args.Files {
		loc := core.NewSourceLocation(path)
		cli.TestLogger.Log(path, "running")
		if pretty {
			fmt.Fprintf(os.Stderr, "\r%s: running...\033[K", path)
		}
		res := dtcore.RunTest(loc, cfg, nil)
		cli.TestLogger.Done(path)

		if pretty {
			fmt.Fprintf(os.Stderr, "\r\033[K")
		}
		fmt.Printf("%s: %s\n", path, res.Status)
		if opts.NoExecute && res.Script != "" {
			fmt.Println(res.Script)
		}
		if res.Status.Failure() {
			fmt.Print(dtcore.Format(res))
		}
		suite.Add(report.TestCase{Name: path, Result: res})
	}

	log.Noticef("ran %d test(s): %d passed, %d failed, %d unresolved, %d skipped",
		suite.Tests(), suite.Passes(), suite.Failures(), suite.Errors(), suite.Skips())

	if !suite.AllSucceeded() {
		os.Exit(1)
	}
}
