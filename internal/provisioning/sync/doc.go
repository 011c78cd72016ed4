// Package sync provides the task that pushes the local project into a
// vagrant machine before the remote tasks run.
package sync
