// Package remote provides idempotent provisioning primitives executed on a
// target host: Debian packages, pip requirements, files, directories,
// symlinks and system services.
//
// Every primitive first inspects remote state and only changes it when it
// differs from the desired state, so running a provisioning plan twice is
// safe. Commands go through an [Executor], normally the SSH client.
package remote
