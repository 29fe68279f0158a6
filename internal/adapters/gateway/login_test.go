package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Login_Success(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("expected path /api/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("invalid login body: %v", err)
		}
		if creds["username"] != "testuser" || creds["password"] != "00000" {
			t.Errorf("unexpected credentials: %v", creds)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"token":     "abc",
			"expiresAt": expiry.Format(time.RFC3339),
		})
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, "")

	token, expiresAt, err := client.Login(context.Background(), "testuser", "00000")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "abc" {
		t.Errorf("expected token 'abc', got %q", token)
	}
	if !expiresAt.Equal(expiry) {
		t.Errorf("expected expiry %s, got %s", expiry, expiresAt)
	}
}

func TestClient_Login_NumericExpiry(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Unix()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token":     "abc",
			"expiresAt": expiry,
		})
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, "")

	_, expiresAt, err := client.Login(context.Background(), "testuser", "00000")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if expiresAt.Unix() != expiry {
		t.Errorf("expected unix expiry %d, got %d", expiry, expiresAt.Unix())
	}
}

func TestClient_Login_ServerErrorMessageVerbatim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid username or password"})
	}))
	defer ts.Close()

	client, creds := newTestClient(ts.URL, "")

	_, _, err := client.Login(context.Background(), "testuser", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid username or password" {
		t.Errorf("expected the server message verbatim, got %q", err.Error())
	}
	if creds.invalidated {
		t.Error("a failed login must not go through the forced-logout path")
	}
}

func TestClient_Login_MissingToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client, _ := newTestClient(ts.URL, "")

	if _, _, err := client.Login(context.Background(), "u", "p"); err == nil {
		t.Fatal("expected error for response without token")
	}
}
