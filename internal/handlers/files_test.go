package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aora/backend/internal/auth"
)

type assetStorageStub struct {
	saved    bool
	key      string
	location string
	err      error
}

func (s *assetStorageStub) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	s.saved = true
	s.key = key
	_, _ = io.Copy(io.Discard, r)
	if s.err != nil {
		return "", s.err
	}
	return s.location, nil
}

func multipartUpload(t *testing.T, kind, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if kind != "" {
		if err := writer.WriteField("kind", kind); err != nil {
			t.Fatalf("write kind field: %v", err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("write file contents: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestFileHandlerCreateImage(t *testing.T) {
	store := &assetStorageStub{location: "https://media.example.com/uploads/generated.png"}
	handler := FileHandler{Storage: store}

	body, contentType := multipartUpload(t, "image", "thumb.png", "fake-png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d body %s", rec.Code, rec.Body.String())
	}
	if !store.saved {
		t.Fatal("expected upload to reach storage")
	}
	if !strings.HasPrefix(store.key, "uploads/") || !strings.HasSuffix(store.key, ".png") {
		t.Fatalf("unexpected storage key %s", store.key)
	}

	var resp uploadFileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != "image" {
		t.Fatalf("unexpected kind %s", resp.Kind)
	}
	for _, param := range []string{"width=2000", "height=2000", "gravity=top", "quality=100"} {
		if !strings.Contains(resp.URL, param) {
			t.Fatalf("expected preview parameter %s in %s", param, resp.URL)
		}
	}
}

func TestFileHandlerCreateVideoKeepsRawURL(t *testing.T) {
	store := &assetStorageStub{location: "https://media.example.com/uploads/generated.mp4"}
	handler := FileHandler{Storage: store}

	body, contentType := multipartUpload(t, "video", "clip.mp4", "fake-mp4-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d", rec.Code)
	}

	var resp uploadFileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != store.location {
		t.Fatalf("expected raw view url, got %s", resp.URL)
	}
}

func TestFileHandlerCreateUnsupportedKind(t *testing.T) {
	store := &assetStorageStub{}
	handler := FileHandler{Storage: store}

	body, contentType := multipartUpload(t, "document", "doc.pdf", "fake-pdf-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithAccountID(req.Context(), "account-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d", rec.Code)
	}
	if store.saved {
		t.Fatal("expected no upload for unsupported kind")
	}
}

func TestFileHandlerCreateRequiresAuth(t *testing.T) {
	handler := FileHandler{Storage: &assetStorageStub{}}

	body, contentType := multipartUpload(t, "image", "thumb.png", "bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d", rec.Code)
	}
}
