package services

import (
	"context"
	"fmt"
	"log"

	"ai-interviewer/internal/models"
)

const (
	extractionTemperature = 0.1
	extractionMaxTokens   = 4000
)

// QuestionExtractor turns an uploaded question document into a structured
// ExtractionResult via the vision backend.
type QuestionExtractor interface {
	ProcessDocument(ctx context.Context, data []byte, fileType string) *models.ExtractionResult
}

type questionExtractor struct {
	rasterizer DocumentRasterizer
	planner    ChunkPlanner
	prompts    *PromptBuilder
	gemini     GeminiService
}

func NewQuestionExtractor(rasterizer DocumentRasterizer, planner ChunkPlanner, prompts *PromptBuilder, gemini GeminiService) QuestionExtractor {
	return &questionExtractor{
		rasterizer: rasterizer,
		planner:    planner,
		prompts:    prompts,
		gemini:     gemini,
	}
}

type extractionPayload struct {
	Questions []RawQuestion `json:"questions"`
}

// ProcessDocument runs rasterize, chunk, extract, normalize, validate and
// aggregate. It always returns a result, never an error: document-level
// faults come back as a failed result with a message, while per-chunk parse
// faults only cost that chunk's records.
func (e *questionExtractor) ProcessDocument(ctx context.Context, data []byte, fileType string) *models.ExtractionResult {
	pages, err := e.rasterizer.Rasterize(data, fileType)
	if err != nil {
		log.Printf("❌ Rasterization failed: %v", err)
		return models.FailedExtraction(err.Error())
	}

	chunks := e.planner.Plan(pages)
	log.Printf("📄 Processing %d page(s) in %d chunk(s)", len(pages), len(chunks))

	questions := make([]models.ParsedQuestion, 0)
	totalExtracted := 0
	callFailures := 0
	var firstCallErr error

	for _, chunk := range chunks {
		raw, err := e.extractChunk(ctx, chunk)
		if err != nil {
			log.Printf("❌ Chunk %d extraction call failed: %v", chunk.Index+1, err)
			callFailures++
			if firstCallErr == nil {
				firstCallErr = err
			}
			continue
		}

		totalExtracted += len(raw)
		for _, record := range raw {
			normalized := NormalizeQuestion(record)
			if ValidateQuestion(normalized) {
				questions = append(questions, normalized)
			}
		}
	}

	// Only a document where every single chunk call failed is a hard failure.
	if len(chunks) > 0 && callFailures == len(chunks) {
		return models.FailedExtraction(firstCallErr.Error())
	}

	result := &models.ExtractionResult{
		Questions:      questions,
		TotalExtracted: totalExtracted,
		TotalValid:     len(questions),
	}

	if result.TotalValid > 0 {
		result.Success = true
		log.Printf("✅ Extracted %d question(s), %d valid", totalExtracted, result.TotalValid)
	} else {
		message := "No valid questions found"
		result.Error = &message
		log.Printf("⚠️ Extraction produced no valid questions (%d raw)", totalExtracted)
	}

	return result
}

// extractChunk sends one batch of page images to the vision backend and
// parses its JSON payload. A parse failure after the fenced-block fallback
// drops the chunk's records without failing the document.
func (e *questionExtractor) extractChunk(ctx context.Context, chunk PageChunk) ([]RawQuestion, error) {
	images := make([][]byte, 0, len(chunk.Pages))
	for _, page := range chunk.Pages {
		images = append(images, page.Data)
	}

	response, err := e.gemini.GenerateVision(
		ctx,
		e.prompts.BuildExtractionSystemPrompt(),
		e.prompts.BuildExtractionUserPrompt(len(chunk.Pages)),
		images,
		extractionTemperature,
		extractionMaxTokens,
		true,
	)
	if err != nil {
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}

	var payload extractionPayload
	if err := decodeModelJSON(response, &payload); err != nil {
		log.Printf("⚠️ Chunk %d returned unparseable JSON, skipping: %v", chunk.Index+1, err)
		return nil, nil
	}

	return payload.Questions, nil
}
