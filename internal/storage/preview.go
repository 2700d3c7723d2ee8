package storage

import (
	"errors"
	"fmt"
	"net/url"
)

// AssetKind is the closed set of media types Aora stores.
type AssetKind string

const (
	// AssetKindImage covers thumbnails; presented through a rendered preview URL.
	AssetKindImage AssetKind = "image"
	// AssetKindVideo covers uploaded videos; presented through a direct view URL.
	AssetKindVideo AssetKind = "video"
)

// ErrInvalidKind indicates an asset kind outside the supported set.
var ErrInvalidKind = errors.New("unsupported asset kind")

// ParseAssetKind converts a wire value into an AssetKind.
func ParseAssetKind(value string) (AssetKind, error) {
	switch AssetKind(value) {
	case AssetKindImage:
		return AssetKindImage, nil
	case AssetKindVideo:
		return AssetKindVideo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
}

// Image previews are rendered server-side inside a fixed bounding box,
// anchored to the top of the frame at full quality.
const (
	previewWidth   = 2000
	previewHeight  = 2000
	previewGravity = "top"
	previewQuality = 100
)

// PresentationURL derives the URL a client should use to display a stored
// asset: the raw view URL for videos, a parameterized preview URL for images.
func PresentationURL(location string, kind AssetKind) (string, error) {
	switch kind {
	case AssetKindVideo:
		return location, nil
	case AssetKindImage:
		u, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("parse asset location: %w", err)
		}
		q := u.Query()
		q.Set("width", fmt.Sprint(previewWidth))
		q.Set("height", fmt.Sprint(previewHeight))
		q.Set("gravity", previewGravity)
		q.Set("quality", fmt.Sprint(previewQuality))
		u.RawQuery = q.Encode()
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
}
