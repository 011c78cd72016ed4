package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/imamik/devprov/internal/config"
	tu "github.com/imamik/devprov/internal/testing"
	"github.com/imamik/devprov/internal/util/prerequisites"
)

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// saveAndRestoreFactories saves every factory variable and restores it
// when the test ends.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origFindConfigFile := findConfigFile
	origLoadConfigFile := loadConfigFile
	origGetwd := getwd
	origLookupEnv := lookupEnv
	origCheckPrereqs := checkPrereqs
	origNewVagrantClient := newVagrantClient
	origRunPipeline := runPipeline
	origRunTUI := runTUI
	origIsInteractive := isInteractive
	origNewObjectStore := newObjectStore
	origWriteMetrics := writeMetrics
	origDiagnose := diagnose
	origFileExists := fileExists
	origConfirmOverwrite := confirmOverwrite
	origRunWizard := runWizard
	origWriteConfig := writeConfig
	origEnsureKey := ensureKey

	t.Cleanup(func() {
		findConfigFile = origFindConfigFile
		loadConfigFile = origLoadConfigFile
		getwd = origGetwd
		lookupEnv = origLookupEnv
		checkPrereqs = origCheckPrereqs
		newVagrantClient = origNewVagrantClient
		runPipeline = origRunPipeline
		runTUI = origRunTUI
		isInteractive = origIsInteractive
		newObjectStore = origNewObjectStore
		writeMetrics = origWriteMetrics
		diagnose = origDiagnose
		fileExists = origFileExists
		confirmOverwrite = origConfirmOverwrite
		runWizard = origRunWizard
		writeConfig = origWriteConfig
		ensureKey = origEnsureKey
	})
}

// useConfig makes loadConfig return cfg regardless of the path and
// disables environment lookups and tool checks.
func useConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	saveAndRestoreFactories(t)

	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }
	lookupEnv = func(string) string { return "" }
	checkPrereqs = func(context.Context, []prerequisites.Tool) *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
	isInteractive = func() bool { return false }
}

// testConfig returns a config with a vagrant "dev" and an SSH "staging"
// environment whose run store lives in a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return tu.NewConfigBuilder().
		WithProjectRoot(root).
		WithReportDir(filepath.Join(root, "runs")).
		WithSSHEnvironment("staging", "staging.example.com", "deploy", "/keys/id").
		Build()
}
