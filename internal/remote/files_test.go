package remote_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devprov/internal/remote"
	tu "github.com/imamik/devprov/internal/testing"
)

func TestFile_UploadsWhenMissing(t *testing.T) {
	t.Parallel()

	exec := tu.FreshHost()
	host := remote.NewHost(exec, nil)

	changed, err := host.File(tu.TestContext(t), "/home/vagrant/.bash_profile", remote.FileOptions{
		Contents: []byte("cd /vagrant"),
	})
	require.NoError(t, err)
	assert.True(t, changed)

	cmds := exec.Executed()
	require.Len(t, cmds, 2)
	assert.Contains(t, cmds[0], "sha256sum /home/vagrant/.bash_profile")
	assert.Contains(t, cmds[1], "base64 -d > /home/vagrant/.bash_profile.devprov.tmp")
	assert.Contains(t, cmds[1], "mv -f /home/vagrant/.bash_profile.devprov.tmp /home/vagrant/.bash_profile")
}

func TestFile_SkipsWhenHashMatches(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("cd /vagrant"))
	exec := tu.NewFakeExecutor().On("sha256sum", tu.Response{
		Output: hex.EncodeToString(sum[:]) + "  /home/vagrant/.bash_profile\n",
	})
	host := remote.NewHost(exec, nil)

	changed, err := host.File(tu.TestContext(t), "/home/vagrant/.bash_profile", remote.FileOptions{
		Contents: []byte("cd /vagrant"),
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, exec.Executed(), 1)
}

func TestFile_TouchOnlyWithSudo(t *testing.T) {
	t.Parallel()

	exec := tu.NewFakeExecutor().On("test -f", tu.Response{ExitCode: 1})
	host := remote.NewHost(exec, nil)

	changed, err := host.File(tu.TestContext(t), "/usr/share/x/enable", remote.FileOptions{UseSudo: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{
		"sudo -n sh -c 'test -f /usr/share/x/enable'",
		"sudo -n sh -c 'touch /usr/share/x/enable'",
	}, exec.Executed())
}

func TestFile_OwnershipAndMode(t *testing.T) {
	t.Parallel()

	exec := tu.NewFakeExecutor()
	host := remote.NewHost(exec, nil)

	_, err := host.File(tu.TestContext(t), "/tmp/f", remote.FileOptions{Owner: "vagrant", Mode: 0o640})
	require.NoError(t, err)
	assert.Equal(t, 1, exec.Count("chown vagrant /tmp/f"))
	assert.Equal(t, 1, exec.Count("chmod 0640 /tmp/f"))
}

func TestDirectory(t *testing.T) {
	t.Parallel()

	exec := tu.FreshHost()
	host := remote.NewHost(exec, nil)

	created, err := host.Directory(tu.TestContext(t), "/vagrant/data", remote.DirOptions{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"test -d /vagrant/data", "mkdir -p /vagrant/data"}, exec.Executed())

	exec = tu.ProvisionedHost()
	host = remote.NewHost(exec, nil)
	created, err = host.Directory(tu.TestContext(t), "/vagrant/data", remote.DirOptions{})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCopy(t *testing.T) {
	t.Parallel()

	exec := tu.NewFakeExecutor()
	host := remote.NewHost(exec, nil)

	require.NoError(t, host.Copy(tu.TestContext(t), "/vagrant/fabfile/templates/certs", "/etc/ssl/", true, true))
	assert.Equal(t, []string{"sudo -n sh -c 'cp -r /vagrant/fabfile/templates/certs /etc/ssl/'"}, exec.Executed())
}

func TestCopy_Failure(t *testing.T) {
	t.Parallel()

	exec := tu.NewFakeExecutor().On("cp ", tu.Response{ExitCode: 1, Output: "No such file or directory"})
	host := remote.NewHost(exec, nil)

	err := host.Copy(tu.TestContext(t), "/missing", "/etc/", true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to copy /missing to /etc/")
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestEnsureSymlink(t *testing.T) {
	t.Parallel()

	exec := tu.FreshHost()
	host := remote.NewHost(exec, nil)

	created, err := host.EnsureSymlink(tu.TestContext(t), "/etc/a.conf", "/etc/b.conf", true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, exec.Count("ln -s /etc/a.conf /etc/b.conf"))

	exec = tu.ProvisionedHost()
	host = remote.NewHost(exec, nil)
	created, err = host.EnsureSymlink(tu.TestContext(t), "/etc/a.conf", "/etc/b.conf", true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, exec.Count("ln -s"))
}

func TestPredicateUnexpectedExit(t *testing.T) {
	t.Parallel()

	exec := tu.NewFakeExecutor().On("test -L", tu.Response{ExitCode: 126})
	host := remote.NewHost(exec, nil)

	_, err := host.IsLink(tu.TestContext(t), "/x", false)
	require.Error(t, err)

	var cmdErr *remote.CommandError
	assert.ErrorAs(t, err, &cmdErr)
}
