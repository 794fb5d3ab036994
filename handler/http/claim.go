package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	jobctrl "rimborso/src/infrastructure/job"
	"rimborso/src/textextract"
)

// ClaimHandler exposes claim submission and status polling.
type ClaimHandler struct {
	service *jobctrl.Service
}

func NewClaimHandler(service *jobctrl.Service) (*ClaimHandler, error) {
	return &ClaimHandler{
		service: service,
	}, nil
}

// Submit accepts the three document parts (contract, statement, template),
// creates a pending job and returns its id. Analysis results are observed
// later by polling Status.
func (h *ClaimHandler) Submit(c *gin.Context) {
	contract, err := readFilePart(c, "contract")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	statement, err := readFilePart(c, "statement")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := readFilePart(c, "template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	j, err := h.service.Submit(c.Request.Context(), contract, statement, template)
	if err != nil {
		if errors.Is(err, jobctrl.ErrMissingDocument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit claim"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"jobId":  j.ID,
		"status": j.Status,
	})
}

// Status returns the full job record for polling clients.
func (h *ClaimHandler) Status(c *gin.Context) {
	j, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobctrl.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load job"})
		return
	}

	c.JSON(http.StatusOK, j)
}

// List returns jobs newest first.
func (h *ClaimHandler) List(c *gin.Context) {
	limit := 10
	offset := 0

	if limitParam := c.Query("limit"); limitParam != "" {
		if _, err := fmt.Sscanf(limitParam, "%d", &limit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		if _, err := fmt.Sscanf(offsetParam, "%d", &offset); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
			return
		}
	}

	jobs, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": jobs,
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
		},
	})
}

func readFilePart(c *gin.Context, name string) (*jobctrl.SubmittedFile, error) {
	file, header, err := c.Request.FormFile(name)
	if err != nil {
		return nil, fmt.Errorf("missing file part %q", name)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file part %q", name)
	}

	return &jobctrl.SubmittedFile{
		Filename: header.Filename,
		MimeType: partMimeType(header),
		Data:     data,
	}, nil
}

func partMimeType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return textextract.MimeTypeForFilename(header.Filename)
}
