package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devprov/internal/config"
)

func sshConfig() *config.Config {
	return &config.Config{
		Timezone: "Europe/Berlin",
		Environments: map[string]config.Environment{
			"staging": {Host: "staging.example.com", User: "deploy", IdentityFile: "/keys/id"},
		},
	}
}

func TestWriteConfig_MinimalOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "devprov.yaml")

	require.NoError(t, WriteConfig(sshConfig(), outputPath, false))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	s := string(content)

	assert.Contains(t, s, "# devprov configuration")
	assert.Contains(t, s, "Output mode: minimal")
	assert.Contains(t, s, "devprov provision -c "+outputPath+" -e staging")
	assert.Contains(t, s, "timezone: Europe/Berlin")
	assert.Contains(t, s, "host: staging.example.com")
	assert.NotContains(t, s, "remote_project_root")

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteConfig_FullOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "devprov.yaml")
	cfg := sshConfig()

	require.NoError(t, WriteConfig(cfg, outputPath, true))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	s := string(content)

	assert.Contains(t, s, "Output mode: full")
	assert.NotContains(t, s, "Note: This is a minimal config")
	assert.Contains(t, s, "remote_project_root: /vagrant")
	assert.Contains(t, s, "port: 22")
	assert.NotContains(t, s, "project_root: .")

	// The caller's config is not modified.
	assert.Empty(t, cfg.RemoteProjectRoot)
	assert.Zero(t, cfg.Environments["staging"].Port)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "devprov.yaml")

	for _, full := range []bool{false, true} {
		require.NoError(t, WriteConfig(sshConfig(), outputPath, full))

		cfg, err := config.LoadFile(outputPath)
		require.NoError(t, err, "full=%v", full)
		assert.Equal(t, "Europe/Berlin", cfg.Timezone)
		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, "staging.example.com", cfg.Environments["staging"].Host)
	}
}

func TestWriteConfig_BadPath(t *testing.T) {
	err := WriteConfig(sshConfig(), filepath.Join(t.TempDir(), "missing", "devprov.yaml"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

func TestConfirmOverwrite(t *testing.T) {
	original := confirmOverwrite
	t.Cleanup(func() { confirmOverwrite = original })

	var asked string
	confirmOverwrite = func(path string) (bool, error) {
		asked = path
		return true, nil
	}

	ok, err := ConfirmOverwrite("devprov.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "devprov.yaml", asked)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.True(t, FileExists(path))
}

func TestEnsureKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "id_ed25519")

	created, err := EnsureKey(path, "devprov")
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)
	assert.FileExists(t, path+".pub")

	created, err = EnsureKey(path, "devprov")
	require.NoError(t, err)
	assert.False(t, created, "existing keys are kept")
}
