package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/models"
	"github.com/aora/backend/internal/repositories"
)

type videoStoreStub struct {
	created models.VideoPost
	posts   []models.VideoPost

	latestLimit int
	searchQuery string
	creatorID   string
	listedAll   bool

	createErr error
	listErr   error
}

func (s *videoStoreStub) Create(_ context.Context, post models.VideoPost) error {
	s.created = post
	return s.createErr
}

func (s *videoStoreStub) ListAll(_ context.Context) ([]models.VideoPost, error) {
	s.listedAll = true
	return s.posts, s.listErr
}

func (s *videoStoreStub) ListLatest(_ context.Context, limit int) ([]models.VideoPost, error) {
	s.latestLimit = limit
	return s.posts, s.listErr
}

func (s *videoStoreStub) Search(_ context.Context, query string) ([]models.VideoPost, error) {
	s.searchQuery = query
	return s.posts, s.listErr
}

func (s *videoStoreStub) ListByCreator(_ context.Context, creatorID string) ([]models.VideoPost, error) {
	s.creatorID = creatorID
	return s.posts, s.listErr
}

type profileStoreStub struct {
	profile models.UserProfile
	err     error

	created models.UserProfile
}

func (s *profileStoreStub) Create(_ context.Context, profile models.UserProfile) error {
	s.created = profile
	return s.err
}

func (s *profileStoreStub) FindByAccountID(_ context.Context, accountID string) (models.UserProfile, error) {
	if s.err != nil {
		return models.UserProfile{}, s.err
	}
	if s.profile.AccountID != accountID {
		return models.UserProfile{}, repositories.ErrNotFound
	}
	return s.profile, nil
}

func TestVideoHandlerCreateSuccess(t *testing.T) {
	store := &videoStoreStub{}
	profiles := &profileStoreStub{profile: models.UserProfile{ID: "profile-1", AccountID: "account-1", Username: "tester"}}

	handler := VideoHandler{
		Videos:   store,
		Profiles: profiles,
		NowFunc: func() time.Time {
			return time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
		},
	}

	body, _ := json.Marshal(createVideoRequest{
		Title:        "First flight",
		Prompt:       "a drone over mountains",
		VideoURL:     "https://media.example.com/uploads/v.mp4",
		ThumbnailURL: "https://media.example.com/uploads/t.png?width=2000",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusCreated)
	}
	if store.created.ID == "" {
		t.Fatal("expected post ID to be set")
	}
	if store.created.CreatorID != "profile-1" {
		t.Fatalf("expected creator to come from the caller's profile, got %s", store.created.CreatorID)
	}
	if !store.created.CreatedAt.Equal(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created at: %v", store.created.CreatedAt)
	}

	var resp createVideoResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Post.ID != store.created.ID {
		t.Fatalf("response post mismatch: got %s want %s", resp.Post.ID, store.created.ID)
	}
	if resp.Post.Creator == nil || resp.Post.Creator.Username != "tester" {
		t.Fatalf("expected creator to be embedded, got %+v", resp.Post.Creator)
	}
}

func TestVideoHandlerCreateValidation(t *testing.T) {
	store := &videoStoreStub{}
	handler := VideoHandler{
		Videos:   store,
		Profiles: &profileStoreStub{profile: models.UserProfile{ID: "profile-1", AccountID: "account-1"}},
	}

	body, _ := json.Marshal(createVideoRequest{Title: "No video", Prompt: "missing urls"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if store.created.ID != "" {
		t.Fatal("expected no post to be stored")
	}
}

func TestVideoHandlerCreateWithoutProfile(t *testing.T) {
	handler := VideoHandler{
		Videos:   &videoStoreStub{},
		Profiles: &profileStoreStub{},
	}

	body, _ := json.Marshal(createVideoRequest{
		Title:        "t",
		Prompt:       "p",
		VideoURL:     "v",
		ThumbnailURL: "th",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", bytes.NewReader(body))
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-without-profile"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusForbidden)
	}
}

func TestVideoHandlerListShapes(t *testing.T) {
	store := &videoStoreStub{posts: []models.VideoPost{{ID: "post-1", Title: "hello"}}}
	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?latest=true", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("latest: unexpected status %d", rec.Code)
	}
	if store.latestLimit != defaultLatestLimit {
		t.Fatalf("expected default limit %d got %d", defaultLatestLimit, store.latestLimit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos?latest=true&limit=3", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	if store.latestLimit != 3 {
		t.Fatalf("expected limit 3 got %d", store.latestLimit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos?latest=true&limit=zero", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request for invalid limit got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos?search=drone", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	if store.searchQuery != "drone" {
		t.Fatalf("expected search query to be forwarded, got %q", store.searchQuery)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos?creator=profile-9", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	if store.creatorID != "profile-9" {
		t.Fatalf("expected creator filter to be forwarded, got %q", store.creatorID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	if !store.listedAll {
		t.Fatal("expected unfiltered listing to hit ListAll")
	}

	var resp listVideosResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Posts) != 1 || resp.Posts[0].ID != "post-1" {
		t.Fatalf("unexpected posts payload: %+v", resp.Posts)
	}
}
