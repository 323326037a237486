package usecase

import (
	"context"
	"fmt"
	"time"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
	"physiocare/internal/infrastructure/storage"
	"physiocare/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// validate runs the struct constraints of req and reports failures as a ValidationError.
func validate(v *validator.CustomValidator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		fields := v.FormatValidationErrors(err)
		if len(fields) == 0 {
			return err
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

// actorID is the audit actor for identity; nil for system actions.
func actorID(identity entity.Identity) *uuid.UUID {
	if identity.UserID == uuid.Nil {
		return nil
	}
	id := identity.UserID
	return &id
}

// validateForm runs the struct constraints of req and checks the optional
// upload, reporting every failing field in one ValidationError.
func validateForm(v *validator.CustomValidator, req interface{}, upload *dto.FileUpload) error {
	fields := map[string]string{}
	if err := v.Validate(req); err != nil {
		fields = v.FormatValidationErrors(err)
		if len(fields) == 0 {
			return err
		}
	}
	if msg := imageProblem(upload); msg != "" {
		fields["image"] = msg
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func imageProblem(upload *dto.FileUpload) string {
	if upload == nil || upload.Filename == "" {
		return ""
	}
	if !storage.IsAllowedImage(upload.Filename) {
		return ErrInvalidImageType.Error()
	}
	if upload.Limit > 0 && upload.Size > upload.Limit {
		return fmt.Sprintf("image must be at most %d KB", upload.Limit>>10)
	}
	return ""
}

// saveImage stores an upload that passed validateForm and returns its
// reference; no upload yields "".
func saveImage(ctx context.Context, store storage.ImageStore, upload *dto.FileUpload) (string, error) {
	if upload == nil || upload.Filename == "" {
		return "", nil
	}
	return store.Save(ctx, upload.Filename, upload.Content)
}

// discardImage removes an image that no row references any more.
func discardImage(ctx context.Context, store storage.ImageStore, log *logrus.Logger, ref string) {
	if ref == "" {
		return
	}
	if err := store.Delete(ctx, ref); err != nil {
		log.Warnf("Failed to delete image %s: %+v", ref, err)
	}
}

// parseDate reads a date that already passed the datetime=2006-01-02 constraint.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fieldError(field, field+" must be a valid date (YYYY-MM-DD)")
	}
	return t, nil
}
