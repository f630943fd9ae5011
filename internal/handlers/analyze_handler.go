package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/middleware"
	"ai-interviewer/internal/services"
)

type AnalyzeHandler struct {
	analyzer   services.AnalyzerService
	interviews services.InterviewService
	reports    services.ReportService
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, interviews services.InterviewService, reports services.ReportService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:   analyzer,
		interviews: interviews,
		reports:    reports,
	}
}

// HandleAnalyze scores every unscored answer and finalizes the session. Safe
// to call repeatedly.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	response, err := h.analyzer.AnalyzeSession(c.Context(), sessionID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}

// HandlePDFReport streams the session report as a PDF attachment.
func (h *AnalyzeHandler) HandlePDFReport(c *fiber.Ctx) error {
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

	report, err := h.reports.BuildPDFReport(detail)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="interview-%s.pdf"`, sessionID))
	return c.Send(report)
}

// HandleXLSXReport streams the session report as an XLSX attachment.
func (h *AnalyzeHandler) HandleXLSXReport(c *fiber.Ctx) error {
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

	report, err := h.reports.BuildXLSXReport(detail)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="interview-%s.xlsx"`, sessionID))
	return c.Send(report)
}
