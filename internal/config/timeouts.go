package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables tuning connection and command timeouts.
const (
	EnvSSHDialTimeout = "DEVPROV_SSH_DIAL_TIMEOUT"
	EnvSSHMaxRetries  = "DEVPROV_SSH_MAX_RETRIES"
	EnvSSHRetryDelay  = "DEVPROV_SSH_RETRY_DELAY"
	EnvCommandTimeout = "DEVPROV_COMMAND_TIMEOUT"
	EnvRsyncTimeout   = "DEVPROV_RSYNC_TIMEOUT"
)

// Timeouts bounds how long a run waits on the network and on the host.
type Timeouts struct {
	SSHDial       time.Duration // single SSH dial attempt
	SSHMaxRetries int           // dial retries after the first attempt
	SSHRetryDelay time.Duration // initial backoff between dial attempts
	Command       time.Duration // any single remote command
	Rsync         time.Duration // local `vagrant provision` sync
}

// LoadTimeouts reads Timeouts from the environment. Unset, malformed or
// negative values fall back to the defaults:
//
//	DEVPROV_SSH_DIAL_TIMEOUT  10s
//	DEVPROV_SSH_MAX_RETRIES   10
//	DEVPROV_SSH_RETRY_DELAY   2s
//	DEVPROV_COMMAND_TIMEOUT   30m
//	DEVPROV_RSYNC_TIMEOUT     30m
//
// Durations accept Go syntax ("90s") or a plain number of seconds.
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		SSHDial:       envOr(EnvSSHDialTimeout, 10*time.Second, ParseDuration),
		SSHMaxRetries: envOr(EnvSSHMaxRetries, 10, strconv.Atoi),
		SSHRetryDelay: envOr(EnvSSHRetryDelay, 2*time.Second, ParseDuration),
		Command:       envOr(EnvCommandTimeout, 30*time.Minute, ParseDuration),
		Rsync:         envOr(EnvRsyncTimeout, 30*time.Minute, ParseDuration),
	}
}

func envOr[T int | time.Duration](name string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
