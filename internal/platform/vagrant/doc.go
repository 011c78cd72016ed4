// Package vagrant drives the local vagrant CLI.
//
// It resolves the SSH settings of a machine through `vagrant ssh-config`,
// reads machine state through `vagrant status --machine-readable`, and
// triggers `vagrant provision`, which syncs the project folder into the
// machine before remote steps run.
package vagrant
