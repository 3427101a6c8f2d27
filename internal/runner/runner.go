// Package runner parses command line flags and prepares generator
// options for the CLI.
package runner

import (
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/lpgen/lpgen"
)

// Options holds the parsed CLI flags.
type Options struct {
	Filename string
	Output   string
	Config   string
	Sample   string
	Verbose  bool
	Silent   bool
}

// ParseFlags parses CLI flags and validates them. Invalid invocations
// terminate the process with a nonzero exit code.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Generate a lexer and LR(1) parser from a declarative specification file.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.Filename, "filename", "f", "", "specification file to compile"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "path to write the generated source file to (must not exist)"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display errors only"),
		flagSet.CallbackVar(printVersion, "version", "display lpgen version"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&opts.Config, "config", "", "emit config file in yaml format (package name, main inclusion)"),
		flagSet.StringVar(&opts.Sample, "write-sample-config", "", "write a sample emit config to the given path and exit"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	showBanner()

	if opts.Sample != "" {
		if err := lpgen.GenerateSample(opts.Sample); err != nil {
			gologger.Fatal().Msgf("failed to write sample config to %v got %v", opts.Sample, err)
		}
		gologger.Info().Msgf("Sample emit config written to %v", opts.Sample)
		return opts
	}

	if opts.Filename == "" {
		gologger.Fatal().Msgf("lpgen: no specification file given, use -filename")
	}
	if !fileutil.FileExists(opts.Filename) {
		gologger.Fatal().Msgf("lpgen: specification file %v does not exist", opts.Filename)
	}
	if opts.Output == "" {
		gologger.Fatal().Msgf("lpgen: no output path given, use -output")
	}
	if fileutil.FileExists(opts.Output) {
		gologger.Fatal().Msgf("lpgen: output path %v already exists", opts.Output)
	}

	return opts
}

func printVersion() {
	gologger.Info().Msgf("Current version: %s", version)
	os.Exit(0)
}
