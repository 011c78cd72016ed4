// Package web provides the tasks that install TLS certificates, configure
// Apache and enable SimpleSAMLphp on the target.
//
// Configuration trees are copied from the templates directory of the
// synced project, so the project must be synced before these tasks run.
package web
