package ports

import (
	"context"
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
)

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

// TokenResolver turns a bearer token into the user it was issued to.
// Any error means the caller is not authenticated.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// AuthService is the credential side of the auth provider.
type AuthService interface {
	TokenResolver
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}
