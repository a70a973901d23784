package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, tokenType string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID:    primitive.NewObjectID().Hex(),
		Username:  "alice",
		Role:      "USER",
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseToken(t *testing.T) {
	token := signToken(t, testSecret, TokenAccess, time.Minute)
	claims, err := ParseToken(token, testSecret, TokenAccess)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "alice" || claims.TokenType != TokenAccess {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseToken(token, "wrong-secret", TokenAccess); err == nil {
		t.Error("wrong secret should fail")
	}
	if _, err := ParseToken(token, testSecret, TokenRefresh); err == nil {
		t.Error("access token should not verify as refresh")
	}
	expired := signToken(t, testSecret, TokenAccess, -time.Minute)
	if _, err := ParseToken(expired, testSecret, TokenAccess); err == nil {
		t.Error("expired token should fail")
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			t.Error("user id missing from context")
		}
		if UsernameFromContext(r.Context()) != "alice" {
			t.Errorf("username = %q", UsernameFromContext(r.Context()))
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, TokenAccess, time.Minute), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
		{"refresh token", "Bearer " + signToken(t, testSecret, TokenRefresh, time.Minute), http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, testSecret, TokenAccess, -time.Minute), http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := Auth(testSecret)(RequireAdmin()(inner))

	token := func(role string) string {
		claims := &Claims{
			UserID: primitive.NewObjectID().Hex(), Username: "u", Role: role, TokenType: TokenAccess,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	tests := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"admin", http.StatusOK},
		{"Admin", http.StatusOK},
		{"USER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token(tc.role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %q: status = %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}
