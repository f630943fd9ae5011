package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"ai-interviewer/internal/models"
)

type fakeExtractor struct {
	lastFileType string
	lastData     []byte
	result       *models.ExtractionResult
}

func (f *fakeExtractor) ProcessDocument(_ context.Context, data []byte, fileType string) *models.ExtractionResult {
	f.lastData = data
	f.lastFileType = fileType
	return f.result
}

func newOCRApp(extractor *fakeExtractor) *fiber.App {
	app := fiber.New()
	handler := NewOCRHandler(extractor, 1024)
	app.Post("/ocr/extract", handler.HandleExtract)
	return app
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestHandleExtractNoFile(t *testing.T) {
	app := newOCRApp(&fakeExtractor{})

	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleExtractEmptyFile(t *testing.T) {
	app := newOCRApp(&fakeExtractor{})

	body, contentType := multipartUpload(t, "file", "questions.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload["error"] != "Empty file provided" {
		t.Errorf("unexpected error message %q", payload["error"])
	}
}

func TestHandleExtractUnsupportedType(t *testing.T) {
	app := newOCRApp(&fakeExtractor{})

	body, contentType := multipartUpload(t, "file", "questions.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleExtractTooLarge(t *testing.T) {
	app := newOCRApp(&fakeExtractor{})

	body, contentType := multipartUpload(t, "file", "questions.pdf", bytes.Repeat([]byte{'x'}, 2048))
	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleExtractSuccess(t *testing.T) {
	answer := "B"
	extractor := &fakeExtractor{
		result: &models.ExtractionResult{
			Success: true,
			Questions: []models.ParsedQuestion{
				{Text: "What is 2+2?", Options: []string{"3", "4"}, Answer: &answer, Section: "Math"},
			},
			TotalExtracted: 1,
			TotalValid:     1,
		},
	}
	app := newOCRApp(extractor)

	content := []byte("fake image bytes")
	body, contentType := multipartUpload(t, "file", "exam.png", content)
	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if extractor.lastFileType != "png" {
		t.Errorf("expected file type png, got %q", extractor.lastFileType)
	}
	if !bytes.Equal(extractor.lastData, content) {
		t.Error("extractor did not receive the uploaded bytes")
	}

	var result models.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !result.Success || result.TotalValid != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Questions[0].Answer == nil || *result.Questions[0].Answer != "B" {
		t.Errorf("unexpected answer %v", result.Questions[0].Answer)
	}
}

// Extraction faults after input validation still answer 200 so clients can
// read the embedded failure.
func TestHandleExtractFailureStays200(t *testing.T) {
	extractor := &fakeExtractor{result: models.FailedExtraction("No valid questions found")}
	app := newOCRApp(extractor)

	body, contentType := multipartUpload(t, "file", "exam.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/ocr/extract", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var result models.ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if result.Success {
		t.Fatal("expected embedded failure")
	}
	if result.Error == nil || *result.Error != "No valid questions found" {
		t.Errorf("unexpected error %v", result.Error)
	}
}
