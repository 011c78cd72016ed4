// Package main is the entry point for the devprov CLI.
//
// devprov provisions a development host over SSH: it installs the Debian
// and Python requirements of a project, configures the timezone and shell
// environment, and sets up Apache, certificates and SimpleSAMLphp from
// project templates. Hosts are either vagrant machines or plain SSH
// targets declared in devprov.yaml.
//
// Commands: init, provision, tasks, doctor, history.
//
// For detailed usage information, run:
//
//	devprov --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/devprov/cmd/devprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
