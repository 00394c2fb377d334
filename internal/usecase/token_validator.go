package usecase

//go:generate mockgen -source=$GOFILE -destination=../../tests/mock/usecase/token_validator.go -package=usecasemock

import (
	"errors"

	"parkpass/internal/domain/user"
	"parkpass/internal/pkg/jwt"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (*user.Identity, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

// An unknown or missing role claim falls back to viewer; a malformed email
// claim is dropped.
func (t *tokenValidatorImpl) ValidateToken(tokenString string) (*user.Identity, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		role = user.RoleViewer
	}

	identity, err := user.NewIdentity(claims.Subject, claims.Email, role)
	if errors.Is(err, user.ErrInvalidEmail) {
		return user.NewIdentity(claims.Subject, "", role)
	}
	return identity, err
}
