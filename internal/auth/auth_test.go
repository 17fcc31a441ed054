package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestGenerateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("user-123", "test@example.com")

	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestGenerateJWTMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("user-123", "test@example.com")
	assert.ErrorContains(t, err, "JWT_SECRET not set")
}

func TestValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)

	// expiry is about a week out
	assert.Less(t, claims.ExpiresAt.Sub(time.Now().Add(tokenLifetime)).Abs(), 5*time.Second)
}

func TestValidateJWTRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	good, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	future := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := map[string]string{
		"expired": signed(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
			UserID:           "user-123",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		}),
		"tampered":     good[:len(good)-5] + "XXXXX",
		"wrong secret": signed(t, jwt.SigningMethodHS256, []byte("different-secret"), Claims{UserID: "user-123", RegisteredClaims: future}),
		"alg none":     signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{UserID: "attacker", RegisteredClaims: future}),
		"hs512":        signed(t, jwt.SigningMethodHS512, []byte(testSecret), Claims{UserID: "user-123", RegisteredClaims: future}),
		"no user":      signed(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{Email: "x@example.com", RegisteredClaims: future}),
		"empty":        "",
		"malformed":    "not.a.jwt",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateJWT(token)
			assert.Error(t, err)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": GetUserEmail(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user-123","email":"test@example.com"}`, w.Body.String())
			}
		})
	}
}
