package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formFile builds a multipart upload and returns it as the server would see it
func formFile(t *testing.T, filename, contentType string, body []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestSaveAttachment(t *testing.T) {
	s := newTestStorage(t)
	file, header := formFile(t, "Fatura.PDF", "application/pdf", []byte("%PDF-1.4"))

	stored, err := s.SaveAttachment(file, header)
	require.NoError(t, err)
	assert.Equal(t, "Fatura.PDF", stored.Name)
	assert.Equal(t, "application/pdf", stored.Type)
	assert.Equal(t, int64(8), stored.Size)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/invoices/2026/03/"), stored.URL)
	assert.True(t, strings.HasSuffix(stored.URL, ".pdf"))

	rel := strings.TrimPrefix(stored.URL, "/uploads/")
	assert.True(t, s.Exists(rel))
	assert.Empty(t, stored.ThumbnailURL)
}

func TestSaveAttachment_ImageThumbnail(t *testing.T) {
	s := newTestStorage(t)

	src := image.NewRGBA(image.Rect(0, 0, 1280, 640))
	for x := 0; x < 1280; x++ {
		src.Set(x, x%640, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	file, header := formFile(t, "scan.png", "image/png", buf.Bytes())
	stored, err := s.SaveAttachment(file, header)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ThumbnailURL)
	assert.True(t, strings.HasSuffix(stored.ThumbnailURL, "_thumb.png"), stored.ThumbnailURL)

	rel := strings.TrimPrefix(stored.ThumbnailURL, "/uploads/")
	require.True(t, s.Exists(rel))
	full, err := s.resolve(rel)
	require.NoError(t, err)
	f, err := os.Open(full)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 160, cfg.Height)
}

func TestSaveAttachment_UndecodableImageKeepsOriginal(t *testing.T) {
	s := newTestStorage(t)
	file, header := formFile(t, "scan.png", "image/png", []byte("not really a png"))

	stored, err := s.SaveAttachment(file, header)
	require.NoError(t, err)
	assert.Empty(t, stored.ThumbnailURL)
	assert.True(t, s.Exists(strings.TrimPrefix(stored.URL, "/uploads/")))
}

func TestSaveAttachment_Rejects(t *testing.T) {
	s := newTestStorage(t)

	file, header := formFile(t, "notes.txt", "text/plain", []byte("hello"))
	_, err := s.SaveAttachment(file, header)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	file, header = formFile(t, "scan.png", "image/png", []byte("png"))
	header.Size = MaxFileSize() + 1
	_, err = s.SaveAttachment(file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestExists_StaysInsideRoot(t *testing.T) {
	s := newTestStorage(t)
	assert.False(t, s.Exists("../../etc/passwd"))
	assert.False(t, s.Exists("invoices/missing.pdf"))
}

func TestIsValidContentType(t *testing.T) {
	assert.True(t, IsValidContentType("application/pdf"))
	assert.True(t, IsValidContentType("IMAGE/PNG; charset=binary"))
	assert.False(t, IsValidContentType("application/zip"))
	assert.False(t, IsValidContentType(""))
}
