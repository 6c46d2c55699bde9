// Package media wraps the image CDN used for hotel and room type
// photos.  Callers hand it a file stream and get back a stable HTTPS
// URL to store alongside the record.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store uploads images to Cloudinary.
type Store struct {
	cld *cloudinary.Cloudinary
}

// NewStore connects with explicit credentials so misconfiguration
// surfaces at startup instead of on the first upload.
func NewStore(cloudName, apiKey, apiSecret string) (*Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Store{cld: cld}, nil
}

// Upload streams one image into the given folder and returns its
// secure URL.
func (s *Store) Upload(ctx context.Context, r io.Reader, folder string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"hotel-reservation"},
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty secure url (%s)", res.Error.Message)
	}
	return res.SecureURL, nil
}
