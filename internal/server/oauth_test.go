package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newTokenEndpoint(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse token request: %v", err)
		}
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8080/callback",
		Endpoint:     oauth2.Endpoint{AuthURL: tokenURL + "/authorize", TokenURL: tokenURL},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		h := NewOAuthHandler(&oauth2.Config{}, "state")
		if routes := h.Routes(); len(routes) != 1 || routes[0] != "GET /callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})

	t.Run("Successful Exchange", func(t *testing.T) {
		tokens := newTokenEndpoint(t, http.StatusOK)
		h := NewOAuthHandler(newOAuthConfig(tokens.URL), "xyz")

		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Errorf("expected success page, got %s", rec.Body.String())
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "access" || result.Token.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", result.Token)
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		h := NewOAuthHandler(newOAuthConfig("http://127.0.0.1:1"), "expected")

		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=other&code=good-code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "state") {
			t.Errorf("expected state error, got %v", result.Error())
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		h := NewOAuthHandler(newOAuthConfig("http://127.0.0.1:1"), "xyz")

		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&error=access_denied", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		tokens := newTokenEndpoint(t, http.StatusOK)
		h := NewOAuthHandler(newOAuthConfig(tokens.URL), "xyz")

		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=bad-code", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "token exchange failed") {
			t.Errorf("expected exchange error, got %v", result.Error())
		}
	})

	t.Run("Only First Callback Processed", func(t *testing.T) {
		tokens := newTokenEndpoint(t, http.StatusOK)
		h := NewOAuthHandler(newOAuthConfig(tokens.URL), "xyz")

		serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))
		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already processed") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}

		result, ok := <-h.Result()
		if !ok || result.Error() != nil {
			t.Errorf("expected first result to be delivered, got %+v", result)
		}
		if _, ok := <-h.Result(); ok {
			t.Error("expected result channel to be closed")
		}
	})

	t.Run("Send Is Idempotent", func(t *testing.T) {
		h := NewOAuthHandler(&oauth2.Config{}, "xyz")
		h.Send(OAuthResult{Token: &oauth2.Token{AccessToken: "one"}})
		h.Send(OAuthResult{Token: &oauth2.Token{AccessToken: "two"}})

		result := <-h.Result()
		if result.Token.AccessToken != "one" {
			t.Errorf("expected first result, got %s", result.Token.AccessToken)
		}
	})
}
