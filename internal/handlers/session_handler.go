package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/middleware"
	"ai-interviewer/internal/models"
	"ai-interviewer/internal/services"
)

type SessionHandler struct {
	interviews  services.InterviewService
	maxFileSize int64
}

func NewSessionHandler(interviews services.InterviewService, maxFileSize int64) *SessionHandler {
	return &SessionHandler{
		interviews:  interviews,
		maxFileSize: maxFileSize,
	}
}

// HandleCreate starts a session from a multipart form: mode, interview_type,
// job_description, duration_seconds, optional company_id and an optional
// resume PDF.
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	duration, err := strconv.Atoi(c.FormValue("duration_seconds"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "duration_seconds must be an integer",
		})
	}

	input := services.CreateSessionInput{
		UserID:          middleware.UserID(c),
		Mode:            models.InterviewMode(c.FormValue("mode")),
		InterviewType:   models.InterviewType(c.FormValue("interview_type")),
		JobDescription:  c.FormValue("job_description"),
		DurationSeconds: duration,
	}

	if raw := c.FormValue("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid company ID format",
			})
		}
		input.CompanyID = &companyID
	}

	if file, err := c.FormFile("resume"); err == nil {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Resume file too large",
			})
		}
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read resume file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read resume file",
			})
		}
		input.ResumePDF = data
	}

	response, err := h.interviews.CreateSession(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	detail, err := h.interviews.GetSession(c.Context(), sessionID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(detail)
}
