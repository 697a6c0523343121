package common

import (
	"context"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

type contextKey string

const (
	// PrincipalKey carries the authenticated principal resolved by the JWT middleware.
	PrincipalKey contextKey = "principal"
)

// WithPrincipal attaches the authenticated principal to the request context.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipalFromContext extracts the authenticated principal from the request context.
func GetPrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok
}
