package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/devprov/internal/platform/ssh"
)

// MockExecutor is a testify mock of remote.Executor for tests that need
// exact call expectations.
type MockExecutor struct {
	mock.Mock
}

// Run returns the configured result for command.
func (m *MockExecutor) Run(ctx context.Context, command string) (*ssh.Result, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssh.Result), args.Error(1)
}
