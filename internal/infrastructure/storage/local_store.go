package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/spf13/afero"
)

type LocalStore struct {
	fs  afero.Fs
	dir string
}

// NewLocalStore stores images under dir on fs. Pass afero.NewOsFs() in
// production and afero.NewMemMapFs() in tests.
func NewLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{fs: fs, dir: dir}, nil
}

// Save writes r to a fresh file. A failed write or close leaves no file behind.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := objectName(originalName)
	filePath := path.Join(s.dir, name)

	f, err := s.fs.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.fs.Remove(filePath)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(filePath)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return name, nil
}

// Delete removes a stored image. A reference that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	err := s.fs.Remove(path.Join(s.dir, path.Base(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// FileSystem exposes the stored files for serving. Directories are reported
// as missing so the upload folder is never listed.
func (s *LocalStore) FileSystem() http.FileSystem {
	return filesOnly{fs: afero.NewHttpFs(s.fs).Dir(s.dir)}
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}
