package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/google/uuid"
)

// thumbnailSize bounds both sides of an image attachment preview
const thumbnailSize = 320

// Upload validation errors
var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType    = errors.New("only PDF, JPEG and PNG files are accepted")
	ErrInvalidStoragePath = errors.New("path escapes the storage root")
)

// StoredFile describes an uploaded attachment. Image uploads also get a
// preview scaled to fit thumbnailSize.
type StoredFile struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
}

// LocalStorage keeps invoice attachments on the local filesystem
type LocalStorage struct {
	basePath  string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStorage creates the base directory and returns a storage rooted there.
// urlPrefix is the public path the directory is served under.
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// BasePath returns the directory files are written under
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// SaveAttachment validates and stores an uploaded invoice file under invoices/YYYY/MM
func (s *LocalStorage) SaveAttachment(file multipart.File, header *multipart.FileHeader) (*StoredFile, error) {
	if header.Size > MaxFileSize() {
		return nil, ErrFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !IsValidContentType(contentType) {
		return nil, ErrUnsupportedType
	}

	rel, size, err := s.write(file, header.Filename, "invoices")
	if err != nil {
		return nil, err
	}
	stored := &StoredFile{
		Name: filepath.Base(header.Filename),
		URL:  s.URL(rel),
		Type: contentType,
		Size: size,
	}

	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		thumb, err := s.thumbnail(rel)
		if err != nil {
			// the original is kept; clients fall back to it
			logger.Warn("storage: thumbnail failed", "file", rel, "error", err)
		} else {
			stored.ThumbnailURL = s.URL(thumb)
		}
	}
	return stored, nil
}

// thumbnail writes <name>_thumb<ext> next to rel
func (s *LocalStorage) thumbnail(rel string) (string, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	img, err := imaging.Open(full)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	ext := filepath.Ext(rel)
	thumbRel := strings.TrimSuffix(rel, ext) + "_thumb" + ext
	thumbFull := filepath.Join(s.basePath, filepath.FromSlash(thumbRel))
	preview := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	if err := imaging.Save(preview, thumbFull, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return thumbRel, nil
}

func (s *LocalStorage) write(src io.Reader, filename, subDir string) (string, int64, error) {
	dir := filepath.Join(s.basePath, subDir, s.now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	full := filepath.Join(dir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// one byte over the limit is enough to reject
	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize()+1))
	if err == nil && n > MaxFileSize() {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(full)
		if errors.Is(err, ErrFileTooLarge) {
			return "", 0, err
		}
		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}

	rel, _ := filepath.Rel(s.basePath, full)
	return filepath.ToSlash(rel), n, nil
}

// URL returns the public URL of a stored file
func (s *LocalStorage) URL(relativePath string) string {
	return path.Join(s.urlPrefix, filepath.ToSlash(relativePath))
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	full, err := s.resolve(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (s *LocalStorage) resolve(relativePath string) (string, error) {
	full := filepath.Join(s.basePath, filepath.FromSlash(relativePath))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidStoragePath
	}
	return full, nil
}

// ValidContentTypes returns allowed MIME types for uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
	}
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024
}

// IsValidContentType checks if the content type is allowed
func IsValidContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return ValidContentTypes()[ct]
}
