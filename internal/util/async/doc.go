// Package async runs independent operations concurrently.
//
// Local prerequisite checks use it to look up several tools at once instead
// of paying each tool's version timeout in sequence.
package async
