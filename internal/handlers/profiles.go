package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/avatars"
	"github.com/aora/backend/internal/logging"
	"github.com/aora/backend/internal/models"
	"github.com/aora/backend/internal/repositories"
)

// ProfileHandler implements user profile document endpoints.
type ProfileHandler struct {
	Profiles ProfileStore
	// PublicBaseURL is used to derive a fallback initials avatar when the
	// request does not supply one.
	PublicBaseURL string
	NowFunc       func() time.Time
}

// Create handles POST /api/v1/users requests. The profile is always attached
// to the authenticated account, regardless of what the body claims.
func (h ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username and email are required"})
		return
	}

	avatarURL := strings.TrimSpace(req.AvatarURL)
	if avatarURL == "" {
		avatarURL = avatars.URL(h.PublicBaseURL, req.Username)
	}

	profile := models.UserProfile{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Email:     req.Email,
		Username:  req.Username,
		AvatarURL: avatarURL,
		CreatedAt: h.now(),
	}

	if err := h.Profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("profile already exists", "accountId", accountID)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "profile already exists"})
			return
		}
		logger.Error("profile creation failed", "error", err, "accountId", accountID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create profile"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, profileResponse{Profile: toProfilePayload(profile)})
}

// Me handles GET /api/v1/users/me requests.
func (h ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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

	profile, err := h.Profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "profile not found"})
			return
		}
		logger.Error("profile lookup failed", "error", err, "accountId", accountID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, profileResponse{Profile: toProfilePayload(profile)})
}

type createProfileRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

type profileResponse struct {
	Profile profilePayload `json:"profile"`
}

func (h ProfileHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
