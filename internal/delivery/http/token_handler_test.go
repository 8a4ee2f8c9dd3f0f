package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscout-backend/internal/repository"
)

func TestHandleRegisterToken(t *testing.T) {
	repo := repository.NewTokenRepository()
	h := NewTokenHandler(repo)

	body := `{"token":"abc123","platform":"ios","categories":["Electronics"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/tokens/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegisterToken(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got := repo.TokensForCategory("Electronics"); len(got) != 1 {
		t.Fatalf("token not registered: %v", got)
	}
}

func TestHandleRegisterToken_Validation(t *testing.T) {
	h := NewTokenHandler(repository.NewTokenRepository())

	rec := httptest.NewRecorder()
	h.HandleRegisterToken(rec, httptest.NewRequest(http.MethodPost, "/api/tokens/register", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty token: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleRegisterToken(rec, httptest.NewRequest(http.MethodPost, "/api/tokens/register", strings.NewReader("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleRegisterToken(rec, httptest.NewRequest(http.MethodGet, "/api/tokens/register", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: expected 405, got %d", rec.Code)
	}
}

func TestHandleUnregisterToken(t *testing.T) {
	repo := repository.NewTokenRepository()
	repo.RegisterToken("abc123", "android", nil, 0)
	h := NewTokenHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/tokens/unregister", strings.NewReader(`{"token":"abc123"}`))
	rec := httptest.NewRecorder()
	h.HandleUnregisterToken(rec, req)

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleGetTokenCount(t *testing.T) {
	repo := repository.NewTokenRepository()
	repo.RegisterToken("a", "android", nil, 0)
	repo.RegisterToken("b", "ios", nil, 0)
	h := NewTokenHandler(repo)

	rec := httptest.NewRecorder()
	h.HandleGetTokenCount(rec, httptest.NewRequest(http.MethodGet, "/api/tokens/count", nil))

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected count 2, got %d", resp.Count)
	}
}
