package generate

import (
	"context"

	"github.com/dictaflow/platform/internal/suggest"
)

// Static is a generator that serves the deterministic local suggestion pool
// without any network call. Used when no API credentials are configured.
type Static struct{}

// NewStatic creates a static generator.
func NewStatic() *Static {
	return &Static{}
}

// Generate implements Generator.
func (s *Static) Generate(_ context.Context, text string) ([]string, error) {
	return suggest.Fallback(suggest.Normalize(text)), nil
}
