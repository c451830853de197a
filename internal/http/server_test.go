package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/watchmate/watchmate/internal/config"
)

func TestVerifyBearer(t *testing.T) {
	srv := &Server{cfg: config.Config{AuthToken: "secret"}}

	cases := []struct {
		name   string
		header string
		want   bool
	}{
		{"valid", "Bearer secret", true},
		{"trailing space", "Bearer secret ", true},
		{"empty", "", false},
		{"missing prefix", "secret", false},
		{"wrong token", "Bearer nope", false},
		{"lowercase scheme", "bearer secret", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := srv.verifyBearer(tc.header); got != tc.want {
				t.Fatalf("verifyBearer(%q) = %v, want %v", tc.header, got, tc.want)
			}
		})
	}
}

func TestUUIDParam(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil)
	req = attachUUIDParam(req, "itemID", id)
	got, err := uuidParam(req, "itemID")
	if err != nil {
		t.Fatalf("uuidParam: %v", err)
	}
	if got != id {
		t.Fatalf("uuidParam = %s, want %s", got, id)
	}

	bare := httptest.NewRequest(http.MethodGet, "/items/abc", nil)
	if _, err := uuidParam(bare, "itemID"); err == nil {
		t.Fatalf("expected error for missing route parameter")
	}
}

func TestUserIDFromHeader(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/stats/me", nil)
	req.Header.Set("X-User-Id", id.String())
	got, ok := userIDFromHeader(req)
	if !ok || got != id {
		t.Fatalf("userIDFromHeader = (%s, %v), want (%s, true)", got, ok, id)
	}

	req.Header.Set("X-User-Id", "not-a-uuid")
	if _, ok := userIDFromHeader(req); ok {
		t.Fatalf("expected failure for malformed user id")
	}
}
