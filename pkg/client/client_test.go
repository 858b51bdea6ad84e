package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/justcom/justcom-admin/pkg/domain"
	"github.com/justcom/justcom-admin/pkg/session"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login carried Authorization %q", auth)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["email"] != "a@b.com" || body["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, domain.AuthResponse{AccessToken: "t1", RefreshToken: "r1", User: testUser})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	c := New(srv.URL, store)
	resp, err := c.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.AccessToken != "t1" {
		t.Errorf("AccessToken = %q, want %q", resp.AccessToken, "t1")
	}

	sess := readStore(t, store)
	if sess == nil {
		t.Fatal("expected session after login")
	}
	if sess.AccessToken != "t1" || sess.RefreshToken != "r1" || sess.User != testUser {
		t.Errorf("stored session = %+v, want {t1 r1 %+v}", sess, testUser)
	}
	if !c.IsAuthenticated(context.Background()) {
		t.Error("IsAuthenticated() = false after login")
	}
}

func TestLogin_StaleSessionAttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, domain.AuthResponse{AccessToken: "t9", RefreshToken: "r9", User: testUser})
	}))
	defer srv.Close()

	store := loggedInStore(t)
	if _, err := New(srv.URL, store).Login(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if gotAuth != "Bearer t1" {
		t.Errorf("login Authorization = %q, want %q", gotAuth, "Bearer t1")
	}
	if sess := readStore(t, store); sess == nil || sess.AccessToken != "t9" || sess.RefreshToken != "r9" {
		t.Errorf("stored session = %+v, want {t9 r9}", sess)
	}
}

func TestLogin_RejectedWithStaleSession(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls++
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	store := loggedInStore(t)
	_, err := New(srv.URL, store).Login(context.Background(), "a@b.com", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("error = %v, want APIError 401", err)
	}
	if refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", refreshCalls)
	}
	if sess := readStore(t, store); sess == nil || sess.AccessToken != "t1" {
		t.Errorf("stored session = %+v, want the previous session untouched", sess)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls++
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	c := New(srv.URL, store)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error for rejected login")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("error = %v, want APIError 401", err)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("rejected login must not be reported as session expiry")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("error = %q, want it to contain 'Invalid credentials'", err.Error())
	}
	if refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", refreshCalls)
	}
	if readStore(t, store) != nil {
		t.Error("store should stay empty after a failed login")
	}
}

func TestLogin_IncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "t1"})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	_, err := New(srv.URL, store).Login(context.Background(), "a@b.com", "pw")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
	if readStore(t, store) != nil {
		t.Error("incomplete login response must not be stored")
	}
}

func TestDo_AttachesHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer t1")
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		if got := r.Header.Get("X-Store"); got != "berlin" {
			t.Errorf("X-Store = %q, want %q", got, "berlin")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInStore(t))
	var out map[string]bool
	req := Request{Method: http.MethodGet, Endpoint: "/ping", Header: http.Header{"X-Store": []string{"berlin"}}}
	if err := c.Do(context.Background(), req, &out); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !out["ok"] {
		t.Errorf("out = %v, want ok=true", out)
	}
}

func TestDo_NoSessionNoBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		writeJSON(w, http.StatusOK, []domain.Product{})
	}))
	defer srv.Close()

	if _, err := New(srv.URL, session.NewMemoryStore()).ListProducts(context.Background(), ProductFilter{}); err != nil {
		t.Fatalf("ListProducts() error: %v", err)
	}
}

func TestDo_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInStore(t))
	var out map[string]any
	if err := c.Do(context.Background(), Request{Method: http.MethodDelete, Endpoint: "/admin/products/1"}, &out); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("out = %#v, want empty object", out)
	}
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>oops</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	store := loggedInStore(t)
	_, err := New(srv.URL, store).GetDashboardStats(context.Background())
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
	if malformed.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", malformed.Status)
	}
	if readStore(t, store) == nil {
		t.Error("malformed response must not clear the session")
	}
}

func TestDo_ShapeMismatchIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []string{"not", "an", "order"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, loggedInStore(t)).GetOrder(context.Background(), "o1")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
}

func TestAPIErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"message field", http.StatusNotFound, `{"message":"not found"}`, "not found", ""},
		{"error field", http.StatusInternalServerError, `{"error":"boom"}`, "boom", ""},
		{"message wins", http.StatusBadRequest, `{"message":"bad price","error":"validation"}`, "bad price", ""},
		{"code", http.StatusConflict, `{"message":"duplicate","code":"SKU_TAKEN"}`, "duplicate", "SKU_TAKEN"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP error! status: 502", ""},
		{"empty body", http.StatusForbidden, ``, "HTTP error! status: 403", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			err := New(srv.URL, loggedInStore(t)).Do(context.Background(), Request{Endpoint: "/x"}, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := loggedInStore(t)
	err := New(url, store).Do(context.Background(), Request{Endpoint: "/products"}, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrSessionExpired) {
		t.Errorf("error = %v, want a plain transport error", err)
	}
	if readStore(t, store) == nil {
		t.Error("transport error must not clear the session")
	}
}

func TestDo_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		writeJSON(w, http.StatusOK, domain.DashboardStats{})
	}))
	defer srv.Close()

	c := New(srv.URL, loggedInStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if _, err := c.GetDashboardStats(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestLogout_NoSession(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	if err := New(srv.URL, store).Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if calls != 0 {
		t.Errorf("backend calls = %d, want 0", calls)
	}
	if readStore(t, store) != nil {
		t.Error("store should be empty")
	}
}

func TestLogout_BackendFailureStillClears(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusUnauthorized} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var logoutCalls, refreshCalls int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/auth/logout":
					logoutCalls++
					if got := r.Header.Get("Authorization"); got != "Bearer t1" {
						t.Errorf("logout Authorization = %q, want Bearer t1", got)
					}
				case "/auth/refresh":
					refreshCalls++
				}
				w.WriteHeader(status)
			}))
			defer srv.Close()

			store := loggedInStore(t)
			if err := New(srv.URL, store).Logout(context.Background()); err != nil {
				t.Fatalf("Logout() error: %v", err)
			}
			if logoutCalls != 1 {
				t.Errorf("logout calls = %d, want 1", logoutCalls)
			}
			if refreshCalls != 0 {
				t.Errorf("refresh calls = %d, want 0", refreshCalls)
			}
			if readStore(t, store) != nil {
				t.Error("store should be cleared after logout")
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	c := New("http://unused", loggedInStore(t))
	u, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Errorf("CurrentUser() = %+v, want u1", u)
	}

	c = New("http://unused", session.NewMemoryStore())
	u, err = c.CurrentUser(context.Background())
	if err != nil || u != nil {
		t.Errorf("CurrentUser() = %+v, %v; want nil, nil", u, err)
	}
}

func TestWithTimeout_DoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := New("http://example.test", session.NewMemoryStore(), WithHTTPClient(shared), WithTimeout(5*time.Second))

	if shared.Timeout != time.Minute {
		t.Errorf("shared client Timeout = %v, want %v", shared.Timeout, time.Minute)
	}
	if c.httpClient == shared {
		t.Fatal("client still points at the shared *http.Client")
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("client Timeout = %v, want 5s", c.httpClient.Timeout)
	}
}
