package handlers

import (
	"errors"
	"net/http"

	"github.com/faturaflow/faturaflow-api/internal/storage"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// maxUploadFiles caps the parts accepted by one upload call
const maxUploadFiles = 10

type UploadHandler struct {
	storage *storage.LocalStorage
}

func NewUploadHandler(store *storage.LocalStorage) *UploadHandler {
	return &UploadHandler{storage: store}
}

// @Summary Upload Attachments
// @Description Stores invoice files (PDF, JPEG, PNG up to 10MB each) and returns attachment descriptors for invoice creation
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Files (repeat the field for several)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Create(c *gin.Context) {
	if c.Request.ContentLength > maxUploadFiles*storage.MaxFileSize() {
		badRequest(c, "upload is too large")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form is required")
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		badRequest(c, "at least one file is required")
		return
	}
	if len(headers) > maxUploadFiles {
		badRequest(c, "too many files")
		return
	}

	files := make([]*storage.StoredFile, 0, len(headers))
	urls := make([]string, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			badRequest(c, "could not read "+header.Filename)
			return
		}
		stored, err := h.storage.SaveAttachment(file, header)
		file.Close()
		if err != nil {
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
				badRequest(c, header.Filename+": "+err.Error())
				return
			}
			respondError(c, err)
			return
		}
		logger.Debug("attachment stored", "name", stored.Name, "url", stored.URL, "size", stored.Size)
		files = append(files, stored)
		urls = append(urls, stored.URL)
	}

	c.JSON(http.StatusCreated, gin.H{"urls": urls, "files": files})
}
