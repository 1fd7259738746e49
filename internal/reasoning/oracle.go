package reasoning

import (
	"context"

	"airport-query-engine/internal/oracle"
)

// Oracle is the external reasoning collaborator. *oracle.Client satisfies it.
type Oracle interface {
	Process(ctx context.Context, prompt string) (*oracle.Completion, error)
	ExtractParameters(ctx context.Context, text string) (*oracle.Extraction, error)
}

var _ Oracle = (*oracle.Client)(nil)
