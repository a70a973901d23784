package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore()
	tokens.SetTokens("tok-123", "ref-123")
	c := New(server.URL+"/api/", tokens)

	var out map[string]string
	if err := c.getJSON(context.Background(), "documents/", &out); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestClient_NoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(server.URL, NewMemoryTokenStore())
	var out map[string]string
	if err := c.getJSON(context.Background(), "documents/", &out); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestClient_UnauthorizedClearsTokensAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore()
	tokens.SetTokens("stale", "stale-refresh")
	c := New(server.URL, tokens)
	redirected := false
	c.OnUnauthorized = func() { redirected = true }

	var out map[string]string
	err := c.getJSON(context.Background(), "documents/", &out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if _, ok := tokens.AccessToken(); ok {
		t.Error("token store should be empty after a 401")
	}
	if !redirected {
		t.Error("OnUnauthorized should have fired")
	}
}

// The identity check is exempt from forced teardown so that probing a
// stale token cannot loop back into the login redirect.
func TestClient_UnauthorizedOnMeIsExempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := NewMemoryTokenStore()
	tokens.SetTokens("stale", "stale-refresh")
	c := New(server.URL, tokens)
	redirected := false
	c.OnUnauthorized = func() { redirected = true }

	var out User
	err := c.getJSON(context.Background(), meEndpoint, &out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if _, ok := tokens.AccessToken(); !ok {
		t.Error("token store must survive a 401 on the identity check")
	}
	if redirected {
		t.Error("OnUnauthorized must not fire for the identity check")
	}
}

func TestClient_ErrorDetailPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"username already taken"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := New(server.URL, NewMemoryTokenStore())
	err := c.postJSON(context.Background(), "auth/register/", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Detail != "username already taken" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}
