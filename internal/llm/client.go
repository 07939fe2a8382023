package llm

import (
	"context"

	"menulens/internal/schema"
)

// Client turns raw uploaded text into a validated menu.
// The raw model output is returned alongside so callers can surface it
// when validation fails.
type Client interface {
	Extract(ctx context.Context, text string) (*schema.Menu, string, error)
}
