// Package report records what a provisioning run did and persists it.
//
// A Recorder sits between the pipeline and the console or TUI observer and
// turns task events into a Run. Runs are written as JSON to a local Store,
// optionally exported as Prometheus textfile metrics, and optionally
// archived to S3-compatible storage.
package report
