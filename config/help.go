package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
rentadriver - ride booking service

Usage:
  rentadriver [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this help message

All configuration values can also be supplied as environment variables,
see config/config.go for the variable names and defaults.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
