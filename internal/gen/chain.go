package gen

import (
	"context"
	"strings"
)

type generatorChain struct {
	primary  Generator
	fallback Generator
}

// WithFallback returns a generator that first tries the primary implementation
// and falls back to the provided generator when the primary is unavailable or
// produces an unusable completion.
func WithFallback(primary, fallback Generator) Generator {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &generatorChain{primary: primary, fallback: fallback}
}

func (c *generatorChain) Enabled() bool {
	if c == nil {
		return false
	}
	if c.primary != nil && c.primary.Enabled() {
		return true
	}
	if c.fallback != nil && c.fallback.Enabled() {
		return true
	}
	return false
}

func (c *generatorChain) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	if c.primary != nil && c.primary.Enabled() {
		if text, err := c.primary.Generate(ctx, prompt); err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if c.fallback != nil && c.fallback.Enabled() {
		return c.fallback.Generate(ctx, prompt)
	}
	return "", ErrDisabled
}
