package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"shopdesk/internal/ai"
	"shopdesk/internal/bom"
	"shopdesk/internal/database"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
)

// PreviewImport accepts a bill of materials (spreadsheet, CSV, photo or
// PDF of a bill) and returns candidate inventory rows for review.
// Nothing is persisted until ConfirmImport.
func PreviewImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	var items []bom.CandidateItem

	switch ext {
	case ".xlsx", ".xls":
		items, err = bom.ParseXLSX(f)
	case ".csv", ".txt":
		items, err = bom.ParseCSV(f)
	case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing Gemini API key"})
			return
		}
		var content []byte
		content, err = io.ReadAll(f)
		if err == nil {
			items, err = ai.ParseBillDocument(c.Request.Context(), content, mimeFor(ext), apiKey)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: " + ext})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not extract items: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func mimeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/pdf"
	}
}

type ConfirmImportRequest struct {
	Items []bom.CandidateItem `json:"items" binding:"required"`
}

// ConfirmImport inserts the rows the user kept selected. All-or-nothing:
// if the demo inventory quota runs out partway, nothing is inserted.
func ConfirmImport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req ConfirmImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := bom.ConfirmImport(database.DB, userID, req.Items)
	if errors.Is(err, subscription.ErrLimitReached) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Demo limit reached. Upgrade to import more items."})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Import complete",
		"items":   created,
	})
}
