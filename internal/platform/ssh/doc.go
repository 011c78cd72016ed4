// Package ssh provides the SSH executor used to provision the target machine.
//
// A [Client] dials lazily, reuses one connection for every command of a run
// and opens a fresh session per command. Non-zero exit codes are reported in
// [Result] rather than as errors so callers can branch on them (the timezone
// check relies on this). Dialing retries with exponential backoff while the
// machine boots; authentication failures are not retried.
//
// Host keys are ignored unless a known_hosts file or callback is configured,
// which matches how Vagrant boxes are usually reached.
package ssh
