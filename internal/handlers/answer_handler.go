package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/middleware"
	"ai-interviewer/internal/services"
)

type AnswerHandler struct {
	answers     services.AnswerService
	maxFileSize int64
}

func NewAnswerHandler(answers services.AnswerService, maxFileSize int64) *AnswerHandler {
	return &AnswerHandler{
		answers:     answers,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload records one audio answer for a session question. Re-uploading
// the same question replaces the previous recording.
func (h *AnswerHandler) HandleUpload(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	questionID := c.FormValue("question_id")
	if questionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_id is required",
		})
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio file provided",
		})
	}
	if file.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty audio file provided",
		})
	}
	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Audio file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	response, err := h.answers.SaveAnswer(c.Context(), sessionID, middleware.UserID(c), questionID, file)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}
