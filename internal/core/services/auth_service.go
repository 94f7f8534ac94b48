package services

import (
	"fmt"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// AuthService exchanges the owner's password for an API token.
type AuthService struct {
	owner  domain.Owner
	tokens *TokenService
}

func NewAuthService(owner domain.Owner, tokens *TokenService) *AuthService {
	return &AuthService{
		owner:  owner,
		tokens: tokens,
	}
}

func (s *AuthService) Login(password string) (string, error) {
	if err := s.owner.CheckPassword(password); err != nil {
		return "", err
	}

	token, err := s.tokens.GenerateToken(domain.OwnerSubject)
	if err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}
	return token, nil
}
