// Package config defines the devprov configuration model.
//
// A [Config] is read from a YAML file (devprov.yaml by default), completed
// with defaults and validated by [Load]. It describes where the project
// lives locally and on the target, which files drive package installation,
// the timezone to enforce and the named environments a run can target.
// Operational timeouts are tuned through environment variables, see
// [LoadTimeouts].
package config
