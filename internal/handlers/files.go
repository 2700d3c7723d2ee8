package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/logging"
	"github.com/aora/backend/internal/metrics"
	"github.com/aora/backend/internal/storage"
)

// maxUploadBytes caps multipart uploads at 256 MiB.
const maxUploadBytes = 256 << 20

// FileHandler implements media upload endpoints.
type FileHandler struct {
	Storage storage.AssetStorage
	Metrics *metrics.Metrics
}

// Create handles POST /api/v1/files multipart requests. The form must carry a
// "file" part and a "kind" field naming a supported asset kind.
func (h FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if auth.AccountIDFromContext(ctx) == "" {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Storage == nil {
		logger.Error("asset storage unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "file services unavailable"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("invalid multipart payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart request"})
		return
	}

	kind, err := storage.ParseAssetKind(r.FormValue("kind"))
	if err != nil {
		logger.Warn("rejected upload kind", "kind", r.FormValue("kind"))
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unsupported asset kind"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	fileID := uuid.NewString()
	key := fmt.Sprintf("uploads/%s%s", fileID, filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	spanCtx, span := logging.StartSpan(ctx, "asset.upload")
	start := time.Now()
	location, err := h.Storage.Save(spanCtx, key, contentType, file)
	span.End()
	h.observeUpload(kind, time.Since(start), err)
	if err != nil {
		logger.Error("asset upload failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "failed to store file"})
		return
	}

	url, err := storage.PresentationURL(location, kind)
	if err != nil {
		// Unreachable for parsed kinds, but keep the contract airtight.
		logger.Error("derive presentation url", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to derive file url"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, uploadFileResponse{ID: fileID, Kind: string(kind), URL: url})
}

func (h FileHandler) observeUpload(kind storage.AssetKind, elapsed time.Duration, err error) {
	if h.Metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.Metrics.StorageUploadTotal.WithLabelValues(string(kind), status).Inc()
	h.Metrics.StorageUploadDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

type uploadFileResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	URL  string `json:"url"`
}
