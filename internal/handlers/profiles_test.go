package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/models"
	"github.com/aora/backend/internal/repositories"
)

func TestProfileHandlerCreateDerivesAvatarWhenMissing(t *testing.T) {
	store := &profileStoreStub{}
	handler := ProfileHandler{Profiles: store, PublicBaseURL: "http://localhost:8080"}

	body, _ := json.Marshal(createProfileRequest{Username: "Ada Lovelace", Email: "ada@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusCreated)
	}
	if store.created.AccountID != "account-1" {
		t.Fatalf("unexpected account id %q", store.created.AccountID)
	}
	want := "http://localhost:8080/api/v1/avatars/initials?name=Ada+Lovelace"
	if store.created.AvatarURL != want {
		t.Fatalf("unexpected avatar url: got %q want %q", store.created.AvatarURL, want)
	}
}

func TestProfileHandlerCreateKeepsSuppliedAvatar(t *testing.T) {
	store := &profileStoreStub{}
	handler := ProfileHandler{Profiles: store, PublicBaseURL: "http://localhost:8080"}

	body, _ := json.Marshal(createProfileRequest{
		Username:  "ada",
		Email:     "ada@example.com",
		AvatarURL: "https://cdn.example.com/ada.png",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusCreated)
	}
	if store.created.AvatarURL != "https://cdn.example.com/ada.png" {
		t.Fatalf("avatar url was rewritten: %q", store.created.AvatarURL)
	}
}

func TestProfileHandlerCreateConflict(t *testing.T) {
	store := &profileStoreStub{err: repositories.ErrConflict}
	handler := ProfileHandler{Profiles: store}

	body, _ := json.Marshal(createProfileRequest{Username: "ada", Email: "ada@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusConflict)
	}
}

func TestProfileHandlerCreateRequiresAuth(t *testing.T) {
	handler := ProfileHandler{Profiles: &profileStoreStub{}}

	body, _ := json.Marshal(createProfileRequest{Username: "ada", Email: "ada@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestProfileHandlerMe(t *testing.T) {
	store := &profileStoreStub{profile: models.UserProfile{ID: "profile-1", AccountID: "account-1", Username: "ada"}}
	handler := ProfileHandler{Profiles: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var resp profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Profile.Username != "ada" {
		t.Fatalf("unexpected profile: %+v", resp.Profile)
	}
}

func TestProfileHandlerMeNotFound(t *testing.T) {
	store := &profileStoreStub{profile: models.UserProfile{AccountID: "someone-else"}}
	handler := ProfileHandler{Profiles: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}
