package handler

import (
	"errors"
	"net/http"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/middleware"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/internal/infrastructure/tracking"
	"physiocare/internal/usecase"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

const generalFormError = "Please correct the highlighted fields"

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.SetAliasTag("form")
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// notFoundErrors are rendered as the error view with 404.
var notFoundErrors = []error{
	usecase.ErrPatientNotFound,
	usecase.ErrNoPatientsFound,
	usecase.ErrPhysioNotFound,
	usecase.ErrNoPhysiosFound,
	usecase.ErrRecordNotFound,
	usecase.ErrNoRecordsFound,
	usecase.ErrUserNotFound,
}

// base holds what every page handler needs to answer.
type base struct {
	renderer view.Renderer
	log      *logrus.Logger
}

// decodeForm parses a urlencoded or multipart body into dst.
func decodeForm(r *http.Request, dst interface{}, maxBytes int64) error {
	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return formDecoder.Decode(dst, r.PostForm)
}

// readImage returns the optional "image" upload and a func releasing it.
// The size limit travels with the upload so it is reported alongside the
// other field errors.
func readImage(r *http.Request, maxBytes int64) (*dto.FileUpload, func(), error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	upload := &dto.FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Limit:    maxBytes,
		Content:  file,
	}
	return upload, func() { file.Close() }, nil
}

func identity(r *http.Request) entity.Identity {
	if id, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		return *id
	}
	return entity.Identity{}
}

// formErrors returns the field messages of a validation or conflict error,
// plus the form-wide message; nil when err is neither.
func formErrors(err error) map[string]string {
	fields := usecase.FieldErrors(err)
	if fields == nil {
		return nil
	}
	if _, ok := fields["general"]; !ok {
		fields["general"] = generalFormError
	}
	return fields
}

// renderError answers a failed use case call with the error view.
func (b *base) renderError(w http.ResponseWriter, r *http.Request, err error) {
	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			b.renderer.Render(w, r, http.StatusNotFound, view.Error, dto.ErrorPage{Message: capitalize(notFound.Error())})
			return
		}
	}

	b.log.Errorf("Request %s %s failed: %+v", r.Method, r.URL.Path, err)
	tracking.CaptureError(err, map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	b.renderer.Render(w, r, http.StatusInternalServerError, view.Error, dto.ErrorPage{Message: "Something went wrong, please try again"})
}

func (b *base) renderBadRequest(w http.ResponseWriter, r *http.Request) {
	b.renderer.Render(w, r, http.StatusBadRequest, view.Error, dto.ErrorPage{Message: "The submitted form could not be read"})
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
