package usecase

import (
	"diamond-topup/internal/pkg/jwt"
)

// Session is what a storefront bearer token tells us about the buyer.
type Session struct {
	AccountID string
	Reseller  bool
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (Session, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (Session, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return Session{}, err
	}
	if claims.AccountID == "" {
		return Session{}, jwt.ErrInvalidToken
	}

	return Session{
		AccountID: claims.AccountID,
		Reseller:  claims.IsReseller(),
	}, nil
}
