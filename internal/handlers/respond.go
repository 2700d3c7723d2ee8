package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aora/backend/internal/logging"
	"github.com/aora/backend/internal/models"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

type accountPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type profilePayload struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type videoPayload struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Prompt       string          `json:"prompt"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	VideoURL     string          `json:"videoUrl"`
	CreatorID    string          `json:"creatorId"`
	CreatedAt    time.Time       `json:"createdAt"`
	Creator      *profilePayload `json:"creator,omitempty"`
}

func toAccountPayload(account models.Account) accountPayload {
	return accountPayload{ID: account.ID, Email: account.Email, CreatedAt: account.CreatedAt}
}

func toProfilePayload(profile models.UserProfile) profilePayload {
	return profilePayload{
		ID:        profile.ID,
		AccountID: profile.AccountID,
		Email:     profile.Email,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
	}
}

func toVideoPayload(post models.VideoPost) videoPayload {
	payload := videoPayload{
		ID:           post.ID,
		Title:        post.Title,
		Prompt:       post.Prompt,
		ThumbnailURL: post.ThumbnailURL,
		VideoURL:     post.VideoURL,
		CreatorID:    post.CreatorID,
		CreatedAt:    post.CreatedAt,
	}
	if post.Creator != nil {
		creator := toProfilePayload(*post.Creator)
		payload.Creator = &creator
	}
	return payload
}
