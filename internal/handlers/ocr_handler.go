package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"ai-interviewer/internal/services"
)

var extractableTypes = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

type OCRHandler struct {
	extractor   services.QuestionExtractor
	maxFileSize int64
}

func NewOCRHandler(extractor services.QuestionExtractor, maxFileSize int64) *OCRHandler {
	return &OCRHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleExtract accepts a question document and returns the extraction
// result. Extraction faults after input validation come back as 200 with
// success false, so clients distinguish "bad request" from "document yielded
// nothing".
func (h *OCRHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if file.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty file provided",
		})
	}
	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	fileType := detectFileType(file.Filename, data)
	if !extractableTypes[fileType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Unsupported file type: %s. Use PDF, JPG, JPEG or PNG.", fileType),
		})
	}

	result := h.extractor.ProcessDocument(c.Context(), data, fileType)
	return c.JSON(result)
}

// detectFileType prefers the filename extension and falls back to content
// sniffing for extensionless uploads.
func detectFileType(filename string, data []byte) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext != "" {
		return ext
	}

	detected := mimetype.Detect(data)
	return strings.TrimPrefix(detected.Extension(), ".")
}
