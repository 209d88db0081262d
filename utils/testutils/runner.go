package testutils

import (
	"context"

	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/stretchr/testify/mock"
)

// MockRunner stands in for the external tools in unit tests.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, cmd utils.Command) (utils.CmdResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(utils.CmdResult), args.Error(1)
}

// BinaryIs matches commands for the given tool.
func BinaryIs(binary string) any {
	return mock.MatchedBy(func(c utils.Command) bool {
		return c.Binary == binary
	})
}
