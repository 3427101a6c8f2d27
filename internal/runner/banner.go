package runner

import "github.com/projectdiscovery/gologger"

var banner = (`
    __
   / /___  ____ ____  ____
  / / __ \/ __ '/ _ \/ __ \
 / / /_/ / /_/ /  __/ / / /
/_/ .___/\__, /\___/_/ /_/
 /_/    /____/
`)

var version = "v0.1.0"

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
}
