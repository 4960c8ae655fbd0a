package order

import (
	"errors"
	"strings"
	"time"

	"laundry/internal/pkg/errs"
)

// PhotoUpload is a photo reference submitted by a driver before it is timestamped.
type PhotoUpload struct {
	URL  string
	Type PhotoType
}

// Validate checks the URL is present and the type is before or after.
func (p PhotoUpload) Validate() error {
	var urlErr error
	if strings.TrimSpace(p.URL) == "" {
		urlErr = errs.NewValueIsRequiredError("photo_url")
	}
	return errors.Join(urlErr, p.Type.Validate())
}

// Photo is an attachment stored on the order.
type Photo struct {
	url        string
	photoType  PhotoType
	uploadedAt time.Time
}

// RestorePhoto rebuilds a stored photo.
func RestorePhoto(url string, photoType PhotoType, uploadedAt time.Time) (Photo, error) {
	if err := (PhotoUpload{URL: url, Type: photoType}).Validate(); err != nil {
		return Photo{}, err
	}
	return Photo{url: url, photoType: photoType, uploadedAt: uploadedAt}, nil
}

func (p Photo) URL() string           { return p.url }
func (p Photo) Type() PhotoType       { return p.photoType }
func (p Photo) UploadedAt() time.Time { return p.uploadedAt }
