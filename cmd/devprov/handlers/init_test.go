package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/config/wizard"
)

func sshResult() *wizard.WizardResult {
	return &wizard.WizardResult{
		EnvironmentName: "staging",
		Kind:            wizard.KindSSH,
		Host:            "staging.example.com",
		Port:            "22",
		User:            "deploy",
		IdentityFile:    "~/.ssh/devprov_staging",
		GenerateKey:     true,
		Timezone:        "Europe/Berlin",
		AptMaxAge:       "168h",
	}
}

func TestInit_WritesConfig(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(_ context.Context, advanced bool) (*wizard.WizardResult, error) {
		assert.True(t, advanced)
		return sshResult(), nil
	}
	var keyPath string
	ensureKey = func(path, comment string) (bool, error) {
		keyPath = path
		assert.Equal(t, "devprov@staging", comment)
		return true, nil
	}
	var written *config.Config
	writeConfig = func(cfg *config.Config, path string, full bool) error {
		written = cfg
		assert.Equal(t, "out.yaml", path)
		assert.True(t, full)
		return nil
	}

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), "out.yaml", true, true))
	})

	assert.Equal(t, "~/.ssh/devprov_staging", keyPath)
	require.NotNil(t, written)
	assert.Equal(t, "Europe/Berlin", written.Timezone)
	assert.Equal(t, "staging.example.com", written.Environments["staging"].Host)
	assert.Contains(t, output, "Generated SSH key pair")
	assert.Contains(t, output, "ssh-copy-id -i ~/.ssh/devprov_staging.pub deploy@staging.example.com")
	assert.Contains(t, output, "devprov provision -e staging")
}

func TestInit_DeclineOverwrite(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		t.Fatal("wizard should not run")
		return nil, nil
	}

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), "devprov.yaml", false, false))
	})
	assert.Contains(t, output, "Aborted.")
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "devprov.yaml", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_VagrantSkipsKey(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return &wizard.WizardResult{EnvironmentName: "dev", Kind: wizard.KindVagrant, Machine: "default"}, nil
	}
	ensureKey = func(string, string) (bool, error) {
		t.Fatal("no key for vagrant environments")
		return false, nil
	}
	writeConfig = func(*config.Config, string, bool) error { return nil }

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), "devprov.yaml", false, false))
	})
	assert.Contains(t, output, "vagrant up")
	assert.Contains(t, output, "devprov doctor -e dev")
}

func TestInit_WriteError(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		r := sshResult()
		r.GenerateKey = false
		return r, nil
	}
	writeConfig = func(*config.Config, string, bool) error { return errors.New("read-only file system") }

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "devprov.yaml", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
