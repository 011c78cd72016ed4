// Package testing provides test utilities, builders, and fakes for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - FakeExecutor: Recording command executor with scripted responses
//   - MockExecutor: testify mock for the same interface
//   - Fixtures: pre-scripted hosts for common provisioning scenarios
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithTimezone("Europe/Berlin").
//	    WithVagrantEnvironment("dev", "default").
//	    Build()
//
//	exec := testing.FreshHost()
//	host := remote.NewHost(exec, nil)
package testing
