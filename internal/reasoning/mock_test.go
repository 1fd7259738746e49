package reasoning

import (
	"context"

	"github.com/stretchr/testify/mock"

	"airport-query-engine/internal/oracle"
)

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Process(ctx context.Context, prompt string) (*oracle.Completion, error) {
	args := m.Called(ctx, prompt)
	c, _ := args.Get(0).(*oracle.Completion)
	return c, args.Error(1)
}

func (m *mockOracle) ExtractParameters(ctx context.Context, text string) (*oracle.Extraction, error) {
	args := m.Called(ctx, text)
	ex, _ := args.Get(0).(*oracle.Extraction)
	return ex, args.Error(1)
}

func fixedID() string { return "q-fixed" }
