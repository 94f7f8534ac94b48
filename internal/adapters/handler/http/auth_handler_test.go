package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

const ownerPassword = "StrongPassword123!"

func setupAuthHandler(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := domain.HashPassword(ownerPassword)
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", "kanso-streaks", time.Hour)
	handler := adapterHTTP.NewAuthHandler(services.NewAuthService(domain.Owner{PasswordHash: hash}, tokens))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	return router, tokens
}

func postToken(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/api/v1/auth/token", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Token(t *testing.T) {
	t.Run("Success: Should return 200 and a valid token", func(t *testing.T) {
		router, tokens := setupAuthHandler(t)

		w := postToken(router, `{"password": "`+ownerPassword+`"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotEmpty(t, response["token"])

		subject, err := tokens.ValidateToken(response["token"])
		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerSubject, subject)
	})

	t.Run("Fail: 401 Unauthorized (Wrong Password)", func(t *testing.T) {
		router, _ := setupAuthHandler(t)

		w := postToken(router, `{"password": "WrongPassword!"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: 400 Bad Request (Missing Password)", func(t *testing.T) {
		router, _ := setupAuthHandler(t)

		w := postToken(router, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 Bad Request (Invalid JSON)", func(t *testing.T) {
		router, _ := setupAuthHandler(t)

		w := postToken(router, `{"password": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
