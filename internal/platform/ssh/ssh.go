package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/devprov/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 10
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// ErrNoAuthMethod is returned when neither a private key nor an agent is configured.
var ErrNoAuthMethod = errors.New("no SSH authentication method configured")

// Config holds SSH client configuration.
type Config struct {
	Host string
	Port int
	User string

	// PrivateKey is a PEM-encoded private key. Optional when UseAgent is set.
	PrivateKey []byte

	// UseAgent adds the keys of the agent at SSH_AUTH_SOCK.
	UseAgent bool

	// DialTimeout is the timeout for establishing the TCP connection.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	RetryDelay time.Duration

	// KnownHostsFile enables host key verification against an OpenSSH
	// known_hosts file. Ignored when HostKeyCallback is set.
	KnownHostsFile string

	// HostKeyCallback handles host key verification. If nil and no
	// KnownHostsFile is given, host keys are not verified.
	HostKeyCallback ssh.HostKeyCallback

	// OnRetry observes dial retries.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Result is the outcome of one remote command.
type Result struct {
	Command  string
	Output   string
	ExitCode int
}

// OK reports whether the command exited with status 0.
func (r *Result) OK() bool {
	return r.ExitCode == 0
}

// Client executes commands on a remote host via SSH.
type Client struct {
	config *Config
	auth   []ssh.AuthMethod

	mu        sync.Mutex
	conn      *ssh.Client
	agentConn net.Conn
}

// NewClient validates the configuration and prepares authentication.
// No connection is made until the first command runs.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 && !cfg.UseAgent {
		return nil, ErrNoAuthMethod
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		callback, err := hostKeyCallback(configCopy.KnownHostsFile)
		if err != nil {
			return nil, err
		}
		configCopy.HostKeyCallback = callback
	}

	c := &Client{config: &configCopy}

	if len(configCopy.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		c.auth = append(c.auth, ssh.PublicKeys(signer))
	}

	if configCopy.UseAgent {
		sock := os.Getenv("SSH_AUTH_SOCK")
		if sock == "" {
			if len(c.auth) == 0 {
				return nil, fmt.Errorf("%w: SSH_AUTH_SOCK is not set", ErrNoAuthMethod)
			}
		} else {
			conn, err := net.Dial("unix", sock)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to ssh-agent: %w", err)
			}
			c.agentConn = conn
			c.auth = append(c.auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	return c, nil
}

func hostKeyCallback(knownHostsFile string) (ssh.HostKeyCallback, error) {
	if knownHostsFile == "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // development VMs regenerate host keys
	}
	callback, err := knownhosts.New(knownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts %s: %w", knownHostsFile, err)
	}
	return callback, nil
}

// Address returns host:port of the target.
func (c *Client) Address() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// Run executes a command and returns its combined output and exit status.
// A non-zero exit status is not an error; transport failures and
// cancellation are.
func (c *Client) Run(ctx context.Context, command string) (*Result, error) {
	client, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		// The connection may have dropped (for example after a reboot).
		c.reset()
		client, err = c.connection(ctx)
		if err != nil {
			return nil, err
		}
		session, err = client.NewSession()
		if err != nil {
			return nil, fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
		}
	}
	defer func() { _ = session.Close() }()

	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	if err := session.Start(command); err != nil {
		return nil, fmt.Errorf("failed to start command on %s: %w", c.config.Host, err)
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return nil, fmt.Errorf("command interrupted on %s: %w", c.config.Host, ctx.Err())
	case err := <-done:
		result := &Result{Command: command, Output: output.String()}
		if err == nil {
			return result, nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
			return result, nil
		}
		return nil, fmt.Errorf("command failed on %s: %w\nCommand: %s", c.config.Host, err, command)
	}
}

// Close releases the connection and the agent socket.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
		c.conn = nil
	}
	if c.agentConn != nil {
		errs = append(errs, c.agentConn.Close())
		c.agentConn = nil
	}
	return errors.Join(errs...)
}

func (c *Client) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// connection returns the cached connection, dialing with retry if needed.
func (c *Client) connection(ctx context.Context) (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	config := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            c.auth,
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := c.Address()
	var client *ssh.Client

	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = dial(ctx, addr, config)
		if dialErr != nil && isAuthError(dialErr) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
		retry.WithOnRetry(c.config.OnRetry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	c.conn = client
	return client, nil
}

// dial is ssh.Dial with a context-aware TCP connect.
func dial(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "knownhosts: key mismatch")
}
