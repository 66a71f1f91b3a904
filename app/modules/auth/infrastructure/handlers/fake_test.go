package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/application"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
)

// FakeService is a programmable authservice.Service.
type FakeService struct {
	IssueTokenFunc   func(ctx context.Context, req authservice.IssueTokenRequest) (*authservice.TokenResponse, error)
	AuthenticateFunc func(ctx context.Context, token string) (session.Session, error)
}

func (f *FakeService) IssueToken(ctx context.Context, req authservice.IssueTokenRequest) (*authservice.TokenResponse, error) {
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, req)
	}
	return &authservice.TokenResponse{Token: "tok"}, nil
}

func (f *FakeService) Authenticate(ctx context.Context, token string) (session.Session, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, token)
	}
	return session.Session{}, authservice.ErrInvalidToken
}
