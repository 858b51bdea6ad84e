package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/justcom/justcom-admin/pkg/domain"
	"github.com/justcom/justcom-admin/pkg/session"
)

var testUser = domain.User{ID: "u1", Email: "a@b.com", FirstName: "Ada", LastName: "Admin", Role: "admin"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// loggedInStore returns a memory store holding {t1, r1, testUser}.
func loggedInStore(t *testing.T) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	if err := s.Write(context.Background(), "t1", "r1", testUser); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s
}

func readStore(t *testing.T, s session.Store) *session.Session {
	t.Helper()
	sess, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	return sess
}
