package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore keeps uploaded images and hands back a reference that is
// persisted on the owning entity.
type ImageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// allowedExtensions are the image types accepted from forms.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// objectName builds a collision-free name that keeps the original extension.
func objectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		ext = ""
	}
	return uuid.NewString() + ext
}

// IsAllowedImage reports whether the uploaded file name has an accepted extension.
func IsAllowedImage(originalName string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(originalName))]
}
