package main

import (
	"github.com/projectdiscovery/gologger"

	"github.com/lpgen/lpgen"
	"github.com/lpgen/lpgen/internal/runner"
)

func main() {
	cliOpts := runner.ParseFlags()
	if cliOpts.Sample != "" {
		return
	}

	emitCfg := runner.LoadEmitConfig(cliOpts)

	genOpts := lpgen.Options{
		Filename:    cliOpts.Filename,
		Output:      cliOpts.Output,
		PackageName: emitCfg.PackageName,
		IncludeMain: emitCfg.IncludeMain,
	}

	generator, err := lpgen.New(&genOpts)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	if err := generator.WriteFile(genOpts.Output); err != nil {
		gologger.Fatal().Msgf("failed to write output to file got %v", err)
	}
	gologger.Info().Msgf("Generated recognizer written to %v", genOpts.Output)
}
