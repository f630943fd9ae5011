package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/middleware"
	"ai-interviewer/internal/models"
	"ai-interviewer/internal/services"
)

type CompanyHandler struct {
	companies   services.CompanyService
	extractor   services.QuestionExtractor
	maxFileSize int64
}

func NewCompanyHandler(companies services.CompanyService, extractor services.QuestionExtractor, maxFileSize int64) *CompanyHandler {
	return &CompanyHandler{
		companies:   companies,
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

type createCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CompanyHandler) HandleCreate(c *fiber.Ctx) error {
	var req createCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	company, err := h.companies.CreateCompany(c.Context(), req.Name, req.Description, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(company)
}

func (h *CompanyHandler) HandleList(c *fiber.Ctx) error {
	summaries, err := h.companies.ListCompanies(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summaries)
}

func (h *CompanyHandler) HandleGet(c *fiber.Ctx) error {
	companyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company ID format",
		})
	}

	detail, err := h.companies.GetCompany(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// HandleAddQuestions imports pre-parsed questions from a JSON body.
func (h *CompanyHandler) HandleAddQuestions(c *fiber.Ctx) error {
	companyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company ID format",
		})
	}

	var req models.AddQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.companies.AddQuestions(c.Context(), companyID, req.Questions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// HandleImportDocument runs the extraction pipeline over an uploaded
// document and imports the surviving questions into the company's bank.
func (h *CompanyHandler) HandleImportDocument(c *fiber.Ctx) error {
	companyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company ID format",
		})
	}

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
			"error": "File too large",
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
			"error": "Unsupported file type. Use PDF, JPG, JPEG or PNG.",
		})
	}

	result := h.extractor.ProcessDocument(c.Context(), data, fileType)
	if !result.Success {
		return c.JSON(fiber.Map{
			"extraction": result,
			"imported":   0,
		})
	}

	imported, err := h.companies.AddQuestions(c.Context(), companyID, result.Questions)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"extraction": result,
		"imported":   imported.Added,
		"skipped":    imported.Skipped,
	})
}
