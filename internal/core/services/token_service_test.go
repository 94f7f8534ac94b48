package services

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "super-secret-key-for-testing"
	testIssuer = "kanso-test"
)

func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenService(testSecret, testIssuer, time.Hour)

	tokenString, err := service.GenerateToken(domain.OwnerSubject)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	subject, err := service.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, domain.OwnerSubject, subject)
}

func TestTokenService_Rejects(t *testing.T) {
	owner := NewTokenService(testSecret, testIssuer, time.Hour)

	noneToken := func() string {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   domain.OwnerSubject,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		return s
	}

	noExpiry := func() string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: domain.OwnerSubject,
			Issuer:  testIssuer,
		})
		s, _ := token.SignedString([]byte(testSecret))
		return s
	}

	sign := func(svc *TokenService, subject string) string {
		s, err := svc.GenerateToken(subject)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"Another subject", sign(owner, "someone-else"), jwt.ErrTokenInvalidSubject},
		{"Expired", sign(NewTokenService(testSecret, testIssuer, -time.Second), domain.OwnerSubject), jwt.ErrTokenExpired},
		{"Wrong secret", sign(NewTokenService("wrong-key", testIssuer, time.Hour), domain.OwnerSubject), jwt.ErrTokenSignatureInvalid},
		{"Wrong issuer", sign(NewTokenService(testSecret, "other-issuer", time.Hour), domain.OwnerSubject), jwt.ErrTokenInvalidIssuer},
		{"None algorithm", noneToken(), jwt.ErrTokenSignatureInvalid},
		{"Missing expiry", noExpiry(), jwt.ErrTokenRequiredClaimMissing},
		{"Malformed", "this-is-not-a-jwt", jwt.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := owner.ValidateToken(tt.token)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Contains(t, err.Error(), "invalid token")
			assert.Empty(t, subject)
		})
	}
}
