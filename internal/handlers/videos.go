package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/logging"
	"github.com/aora/backend/internal/models"
	"github.com/aora/backend/internal/repositories"
)

const defaultLatestLimit = 7

// VideoHandler provides endpoints for publishing and listing video posts.
type VideoHandler struct {
	Videos   VideoStore
	Profiles ProfileStore
	NowFunc  func() time.Time
}

// Create handles POST /api/v1/videos.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	accountID := auth.AccountIDFromContext(ctx)
	if accountID == "" {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Title == "" || req.Prompt == "" || req.VideoURL == "" || req.ThumbnailURL == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title, prompt, video and thumbnail are required"})
		return
	}

	// Posts are attributed to the caller's profile, not an arbitrary body value.
	creator, err := h.Profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "no profile for this account"})
			return
		}
		logger.Error("creator lookup failed", "error", err, "accountId", accountID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve creator"})
		return
	}

	post := models.VideoPost{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Prompt:       req.Prompt,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		CreatorID:    creator.ID,
		CreatedAt:    h.now(),
	}

	if err := h.Videos.Create(ctx, post); err != nil {
		logger.Error("video creation failed", "error", err, "creatorId", creator.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create video post"})
		return
	}

	post.Creator = &creator
	respondJSON(ctx, w, http.StatusCreated, createVideoResponse{Post: toVideoPayload(post)})
}

// List handles GET /api/v1/videos. Query parameters select the listing shape:
// latest=true (with optional limit), search=<text>, creator=<profile id>, or
// none for the full unfiltered listing.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	query := r.URL.Query()

	var (
		posts []models.VideoPost
		err   error
	)

	switch {
	case query.Get("latest") == "true":
		limit := defaultLatestLimit
		if raw := query.Get("limit"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr != nil || parsed <= 0 {
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}
		posts, err = h.Videos.ListLatest(ctx, limit)
	case query.Get("search") != "":
		posts, err = h.Videos.Search(ctx, query.Get("search"))
	case query.Get("creator") != "":
		posts, err = h.Videos.ListByCreator(ctx, query.Get("creator"))
	default:
		posts, err = h.Videos.ListAll(ctx)
	}

	if err != nil {
		logger.Error("video listing failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list video posts"})
		return
	}

	payload := make([]videoPayload, 0, len(posts))
	for _, post := range posts {
		payload = append(payload, toVideoPayload(post))
	}

	respondJSON(ctx, w, http.StatusOK, listVideosResponse{Posts: payload})
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Prompt       string `json:"prompt"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type createVideoResponse struct {
	Post videoPayload `json:"post"`
}

type listVideosResponse struct {
	Posts []videoPayload `json:"posts"`
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
