// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"fmt"
	"os"

	"github.com/imamik/devprov/internal/config"
)

// Factory function variables shared by the handlers - can be replaced in tests.
var (
	// findConfigFile locates devprov.yaml in a directory.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// getwd returns the working directory searched for a config file.
	getwd = os.Getwd

	// lookupEnv reads DEVPROV_ENV.
	lookupEnv = os.Getenv
)

// loadConfig loads and validates the configuration.
// If configPath is empty, it looks for devprov.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		dir, err := getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path, err := findConfigFile(dir)
		if err != nil {
			return nil, fmt.Errorf("%w\nRun 'devprov init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveEnvironment picks the --env flag, falling back to DEVPROV_ENV,
// and checks that cfg declares it.
func resolveEnvironment(cfg *config.Config, flag string) (string, *config.Environment, error) {
	name := flag
	if name == "" {
		name = lookupEnv(config.EnvVarEnvironment)
	}
	env, err := cfg.Environment(name)
	if err != nil {
		return "", nil, err
	}
	return name, env, nil
}

// describeTarget is a short label for the host an environment points at.
func describeTarget(env *config.Environment) string {
	if env.Vagrant {
		return "vagrant:" + env.Machine
	}
	if env.User != "" {
		return fmt.Sprintf("%s@%s:%d", env.User, env.Host, env.Port)
	}
	return fmt.Sprintf("%s:%d", env.Host, env.Port)
}
