package authservice

import (
	"time"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
)

// FakeJWTProvider records calls and returns programmed results.
type FakeJWTProvider struct {
	trace []string

	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(token string) (*authdomain.Claims, error)
}

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	f.trace = append(f.trace, "GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "signed", nil
}

func (f *FakeJWTProvider) ValidateToken(token string) (*authdomain.Claims, error) {
	f.trace = append(f.trace, "ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(token)
	}
	return &authdomain.Claims{Role: authdomain.RoleViewer}, nil
}
