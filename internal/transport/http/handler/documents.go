package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/internal/app"
	"docqa/internal/extract"
	"docqa/internal/model"
	"docqa/internal/transport/http/middleware"
	"docqa/internal/transport/http/response"
)

const maxUploadSize = 20 << 20 // 20 MB per file

// UploadLister reads back the upload audit trail.
type UploadLister interface {
	ListRecent(limit int) ([]model.UploadRecord, error)
}

type DocumentHandler struct {
	ingestService *app.IngestService
	uploadRepo    UploadLister
}

type UploadResponse struct {
	Status         string              `json:"status"`
	Message        string              `json:"message"`
	ProcessedFiles []app.ProcessedFile `json:"processed_files"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewDocumentHandler(ingestService *app.IngestService, uploadRepo UploadLister) *DocumentHandler {
	return &DocumentHandler{
		ingestService: ingestService,
		uploadRepo:    uploadRepo,
	}
}

// Upload accepts a multipart list of PDF and Markdown files and stores their
// chunks in the vector database.
func (h *DocumentHandler) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, "no files provided")
		return
	}

	files := make([]app.UploadedFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > maxUploadSize {
			response.Error(c, http.StatusBadRequest, "file too large: "+header.Filename)
			return
		}
		f, err := header.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "read uploaded file failed: "+header.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "read uploaded file failed: "+header.Filename)
			return
		}
		files = append(files, app.UploadedFile{Filename: header.Filename, Data: data})
	}

	log.Printf("received %d files from %s", len(files), user.Email)

	processed, err := h.ingestService.Ingest(c.Request.Context(), user.Email, files)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrNoFiles):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("processing files failed: %v", err)
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Status:         "success",
		Message:        messageForCount(len(processed)),
		ProcessedFiles: processed,
	})
}

// DeleteAll removes every document from the vector store. Repeat calls
// succeed even when the store is already empty.
func (h *DocumentHandler) DeleteAll(c *gin.Context) {
	if err := h.ingestService.DeleteAll(c.Request.Context()); err != nil {
		log.Printf("deleting documents failed: %v", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "all documents deleted successfully",
	})
}

// ListUploads returns the recent upload audit trail.
func (h *DocumentHandler) ListUploads(c *gin.Context) {
	records, err := h.uploadRepo.ListRecent(100)
	if err != nil {
		log.Printf("listing uploads failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "list uploads failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"uploads": records,
	})
}

func messageForCount(n int) string {
	if n == 1 {
		return "Processed 1 file"
	}
	return fmt.Sprintf("Processed %d files", n)
}
