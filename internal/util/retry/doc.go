// Package retry provides exponential backoff for transient failures.
//
// [WithExponentialBackoff] retries an operation with a bounded number of
// attempts and a capped, growing delay. It is used while waiting for a
// freshly booted virtual machine to accept SSH connections. Errors wrapped
// with [Fatal] stop the loop immediately.
package retry
