package runner

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/gologger"

	"github.com/lpgen/lpgen"
)

// LoadEmitConfig reads the emit config named by the -config flag,
// falling back to defaults when none was given. YAML syntax errors are
// reported with source annotations and terminate the process.
func LoadEmitConfig(opts *Options) lpgen.Config {
	if opts.Config == "" {
		return lpgen.DefaultConfig
	}
	bin, err := os.ReadFile(opts.Config)
	if err != nil {
		gologger.Error().Msgf("failed to read emit config %v got %v", opts.Config, err)
		os.Exit(1)
	}
	var cfg lpgen.Config
	if errx := yaml.Unmarshal(bin, &cfg); errx != nil {
		gologger.Error().Msgf("lpgen yaml configuration syntax error.\n %v\n.", yaml.FormatError(errx, true, true))
		os.Exit(1)
	}
	if cfg.PackageName == "" {
		cfg.PackageName = lpgen.DefaultConfig.PackageName
		cfg.IncludeMain = lpgen.DefaultConfig.IncludeMain
	}
	return cfg
}
