package aoraclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/sync/errgroup"
)

// AssetKind names the media families the service accepts.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

func (k AssetKind) valid() bool {
	return k == AssetImage || k == AssetVideo
}

// Asset is a file selected for upload.
type Asset struct {
	FileName string
	MIMEType string
	Content  io.Reader
}

// Upload describes a stored file. URL is ready for playback or display: image
// URLs carry the preview rendering parameters, video URLs are served raw.
type Upload struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// VideoForm is the input for CreateVideoPost.
type VideoForm struct {
	Title     string
	Prompt    string
	Video     *Asset
	Thumbnail *Asset
}

// UploadFile stores one asset. The kind is checked before anything is sent.
func (c *Client) UploadFile(ctx context.Context, asset *Asset, kind AssetKind) (Upload, error) {
	if asset == nil || asset.Content == nil {
		return Upload{}, newError(KindValidation, "an asset is required", nil)
	}
	if !kind.valid() {
		return Upload{}, newError(KindInvalidKind, fmt.Sprintf("unsupported asset kind %q", kind), nil)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("kind", string(kind)); err != nil {
		return Upload{}, newError(KindRemote, "failed to build upload request", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, asset.FileName))
	if asset.MIMEType != "" {
		header.Set("Content-Type", asset.MIMEType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return Upload{}, newError(KindRemote, "failed to build upload request", err)
	}
	if _, err := io.Copy(part, asset.Content); err != nil {
		return Upload{}, newError(KindRemote, "failed to read asset", err)
	}
	if err := writer.Close(); err != nil {
		return Upload{}, newError(KindRemote, "failed to build upload request", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/files", nil, body)
	if err != nil {
		return Upload{}, newError(KindRemote, "failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var upload Upload
	if err := c.send(req, &upload); err != nil {
		return Upload{}, newError(KindRemote, "failed to upload file", err)
	}
	return upload, nil
}

// CreateVideoPost uploads the video and thumbnail concurrently, then publishes
// the post referencing both. If one upload fails the other is cancelled and
// nothing already stored is removed.
func (c *Client) CreateVideoPost(ctx context.Context, form VideoForm) (Post, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Prompt = strings.TrimSpace(form.Prompt)
	if form.Title == "" || form.Prompt == "" || form.Video == nil || form.Thumbnail == nil {
		return Post{}, newError(KindValidation, "title, prompt, video and thumbnail are required", nil)
	}

	var videoUpload, thumbnailUpload Upload
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		upload, err := c.UploadFile(groupCtx, form.Video, AssetVideo)
		if err != nil {
			return err
		}
		videoUpload = upload
		return nil
	})
	group.Go(func() error {
		upload, err := c.UploadFile(groupCtx, form.Thumbnail, AssetImage)
		if err != nil {
			return err
		}
		thumbnailUpload = upload
		return nil
	})
	if err := group.Wait(); err != nil {
		return Post{}, err
	}

	var resp struct {
		Post Post `json:"post"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/videos", nil, map[string]string{
		"title":        form.Title,
		"prompt":       form.Prompt,
		"videoUrl":     videoUpload.URL,
		"thumbnailUrl": thumbnailUpload.URL,
	}, &resp)
	if err != nil {
		c.logger.Warn("uploads stored but post creation failed",
			"videoUrl", videoUpload.URL, "thumbnailUrl", thumbnailUpload.URL, "error", err)
		return Post{}, newError(KindRemote, "failed to publish video post", err)
	}
	return resp.Post, nil
}
