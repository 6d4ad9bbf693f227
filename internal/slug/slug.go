// Package slug derives unique invite codes from group titles.
package slug

import (
	"context"
	"fmt"

	gslug "github.com/gosimple/slug"

	apperrors "github.com/geopin/geopin-bot/internal/errors"
)

// ExistsFunc reports whether an invite code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces unique, URL-safe invite codes. Collisions are resolved
// by appending an incrementing counter; the store's uniqueness constraint
// remains the final authority under concurrent creation.
type Generator struct {
	exists ExistsFunc
}

// NewGenerator constructs a Generator backed by the provided existence check.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Generate normalizes title into a lowercase URL-safe token and returns the
// first free candidate: base, base-1, base-2, ...
func (g *Generator) Generate(ctx context.Context, title string) (string, error) {
	base := gslug.Make(title)
	if base == "" {
		return "", apperrors.NewInvalidInput("название не может быть пустым")
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check invite code %q: %w", candidate, err)
		}

		if !taken {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
