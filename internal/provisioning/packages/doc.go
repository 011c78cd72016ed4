// Package packages provides the tasks that keep the package index fresh
// and install Debian and Python packages on the target.
package packages
