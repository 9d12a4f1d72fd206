package storage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload limits enforced before anything touches disk.
const (
	MaxFileSize           = 10 << 20 // 10MB per document
	MaxFilesPerSubmission = 3
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrTooManyFiles    = errors.New("too many files in submission")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrMissingFile     = errors.New("required file is missing")
)

// allowedExtensions covers the accepted document formats.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// allowedMimeTypes is the whitelist for the declared Content-Type of an
// upload. Both the extension and the declared type must pass.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FileStore persists applicant documents on the local filesystem and serves
// them back by stored name.
type FileStore interface {
	// Save writes the uploaded file into the store and returns the stored
	// filename. field disambiguates which document slot produced the file.
	Save(file *multipart.FileHeader, field string) (string, error)

	// Remove deletes a stored file. Removing a name that does not exist is
	// not an error.
	Remove(name string) error

	// Path resolves a stored filename to its absolute location, rejecting
	// names that escape the upload directory.
	Path(name string) (string, error)

	// Dir returns the root upload directory.
	Dir() string
}

type localFileStore struct {
	dir string
}

// NewLocalFileStore creates the upload directory if needed and returns a
// filesystem-backed store.
func NewLocalFileStore(dir string) (FileStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localFileStore{dir: dir}, nil
}

func (s *localFileStore) Save(file *multipart.FileHeader, field string) (string, error) {
	if file == nil {
		return "", ErrMissingFile
	}
	if file.Size > MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, field, file.Size)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	declared := file.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || !allowedMimeTypes[mediaType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, declared)
	}

	// Timestamp plus a uuid fragment keeps names unique without leaking the
	// original client filename.
	name := fmt.Sprintf("%d-%s-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], field, ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}

	return name, nil
}

func (s *localFileStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	return nil
}

func (s *localFileStore) Path(name string) (string, error) {
	if name == "" {
		return "", ErrMissingFile
	}
	// Reject any name that is not a bare filename inside the upload dir.
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid stored filename %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *localFileStore) Dir() string {
	return s.dir
}
