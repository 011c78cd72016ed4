package vagrant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleSSHConfig = `Host default
  HostName 127.0.0.1
  User vagrant
  Port 2222
  UserKnownHostsFile /dev/null
  StrictHostKeyChecking no
  PasswordAuthentication no
  IdentityFile "/home/me/My Project/.vagrant/machines/default/virtualbox/private_key"
  IdentitiesOnly yes
  LogLevel FATAL
`

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	called := m.Called(dir, name, args)
	out, _ := called.Get(0).([]byte)
	return out, called.Error(1)
}

func TestParseSSHConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ParseSSHConfig([]byte(sampleSSHConfig))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Host)
	assert.Equal(t, "127.0.0.1", cfg.HostName)
	assert.Equal(t, "vagrant", cfg.User)
	assert.Equal(t, 2222, cfg.Port)
	assert.Equal(t, []string{"/home/me/My Project/.vagrant/machines/default/virtualbox/private_key"}, cfg.IdentityFiles)
	assert.Equal(t, "/dev/null", cfg.UserKnownHostsFile)
	assert.False(t, cfg.StrictHostKeyChecking)
}

func TestParseSSHConfig_FirstHostOnly(t *testing.T) {
	t.Parallel()

	data := sampleSSHConfig + "\nHost web\n  HostName 10.0.0.2\n  User root\n"
	cfg, err := ParseSSHConfig([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Host)
	assert.Equal(t, "127.0.0.1", cfg.HostName)
}

func TestParseSSHConfig_OpenSSHKeywordRules(t *testing.T) {
	t.Parallel()

	data := `# written by a newer vagrant
Host web
  hostname 192.168.56.10
  USER deploy
  port 2200
  identityfile /keys/id_ed25519
  IdentityFile "/keys/legacy key"
`
	cfg, err := ParseSSHConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Host)
	assert.Equal(t, "192.168.56.10", cfg.HostName)
	assert.Equal(t, "deploy", cfg.User)
	assert.Equal(t, 2200, cfg.Port)
	assert.Equal(t, []string{"/keys/id_ed25519", "/keys/legacy key"}, cfg.IdentityFiles)
	assert.True(t, cfg.StrictHostKeyChecking)
}

func TestParseSSHConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "empty", data: "", wantErr: "missing HostName"},
		{name: "no user", data: "Host x\n  HostName 1.2.3.4\n", wantErr: "missing User"},
		{name: "bad port", data: "Host x\n  HostName h\n  User u\n  Port ssh\n", wantErr: "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSSHConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_SSHConfig(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	runner.On("Run", "/project", "vagrant", []string{"ssh-config", "default"}).
		Return([]byte(sampleSSHConfig), nil)

	client := NewClient("/project", runner)
	cfg, err := client.SSHConfig(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, 2222, cfg.Port)
	runner.AssertExpectations(t)
}

func TestClient_SSHConfigNotRunning(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	runner.On("Run", "/project", "vagrant", []string{"ssh-config", "web"}).
		Return([]byte("The provider for this Vagrant-managed machine is reporting that it\nis not yet ready for SSH."), errors.New("exit status 1"))

	client := NewClient("/project", runner)
	_, err := client.SSHConfig(context.Background(), "web")
	require.ErrorIs(t, err, ErrMachineNotRunning)
	assert.Contains(t, err.Error(), "vagrant up web")
}

func TestClient_Provision(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	runner.On("Run", "/project", "vagrant", []string{"provision", "default"}).
		Return([]byte("==> default: Rsyncing folder"), nil).Once()
	runner.On("Run", "/project", "vagrant", []string{"provision", "broken"}).
		Return([]byte("boom"), errors.New("exit status 1")).Once()

	client := NewClient("/project", runner)

	out, err := client.Provision(context.Background(), "default")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Rsyncing")

	_, err = client.Provision(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vagrant provision broken failed")
	runner.AssertExpectations(t)
}

func TestClient_Status(t *testing.T) {
	t.Parallel()

	output := "1700000000,default,metadata,provider,virtualbox\n" +
		"1700000000,default,provider-name,virtualbox\n" +
		"1700000000,default,state,running\n" +
		"1700000000,default,state-human-short,running\n"

	runner := &mockRunner{}
	runner.On("Run", "", "vagrant", []string{"status", "default", "--machine-readable"}).
		Return([]byte(output), nil)

	client := NewClient("", runner)
	state, err := client.Status(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "running", state)
}

func TestParseState_UnknownMachine(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseState([]byte("1,default,state,running\n"), "other"))
}
