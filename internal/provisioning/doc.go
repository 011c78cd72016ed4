// Package provisioning provides the task model used to bring a development
// machine into its desired state.
//
// # Subpackages
//
//   - packages/: package index refresh, Debian and Python packages
//   - system/: timezone, shell environment, analysis config
//   - web/: certificates, Apache, SimpleSAMLphp
//   - sync/: pushing the project into a vagrant machine
//
// # Core Types
//
// Context carries configuration, the connected remote.Host, and the observer.
// Task defines a provisioning step with Name() and Provision() methods.
// RunTasks executes tasks in order and stops at the first failure.
package provisioning
