package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// fakeGemini satisfies GeminiService with pluggable behavior per method.
// Unset methods fail loudly so a test never silently exercises the wrong
// path.
type fakeGemini struct {
	generateText    func(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error)
	generateVision  func(ctx context.Context, system, user string, images [][]byte, temperature float32, maxTokens int32, forceJSON bool) (string, error)
	generateEmbed   func(ctx context.Context, text string) ([]float32, error)
	transcribeAudio func(ctx context.Context, audio []byte, mimeType string) (string, error)
}

func (f *fakeGemini) GenerateText(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	if f.generateText == nil {
		return "", errors.New("unexpected GenerateText call")
	}
	return f.generateText(ctx, system, user, temperature, maxTokens)
}

func (f *fakeGemini) GenerateVision(ctx context.Context, system, user string, images [][]byte, temperature float32, maxTokens int32, forceJSON bool) (string, error) {
	if f.generateVision == nil {
		return "", errors.New("unexpected GenerateVision call")
	}
	return f.generateVision(ctx, system, user, images, temperature, maxTokens, forceJSON)
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.generateEmbed == nil {
		return nil, errors.New("unexpected GenerateEmbedding call")
	}
	return f.generateEmbed(ctx, text)
}

func (f *fakeGemini) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if f.transcribeAudio == nil {
		return "", errors.New("unexpected TranscribeAudio call")
	}
	return f.transcribeAudio(ctx, audio, mimeType)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestExtractor(gemini GeminiService) QuestionExtractor {
	return NewQuestionExtractor(NewDocumentRasterizer(), NewChunkPlanner(2), NewPromptBuilder(), gemini)
}

func TestProcessDocumentExtractsValidQuestions(t *testing.T) {
	gemini := &fakeGemini{
		generateVision: func(_ context.Context, _, _ string, images [][]byte, _ float32, _ int32, forceJSON bool) (string, error) {
			if len(images) != 1 {
				t.Fatalf("expected 1 image, got %d", len(images))
			}
			if !forceJSON {
				t.Fatal("expected forceJSON to be set")
			}
			return `{"questions": [
				{"text": "What is 2+2?", "options": ["3", "4", "5", "6"], "answer": "b", "section": "Math"},
				{"text": "Broken", "options": ["only one"], "answer": "A", "section": ""}
			]}`, nil
		},
	}

	result := newTestExtractor(gemini).ProcessDocument(context.Background(), testPNG(t), "png")

	if !result.Success {
		t.Fatalf("expected success, got error %v", result.Error)
	}
	if result.TotalExtracted != 2 {
		t.Errorf("expected 2 extracted, got %d", result.TotalExtracted)
	}
	if result.TotalValid != 1 || len(result.Questions) != 1 {
		t.Fatalf("expected 1 valid question, got %d", result.TotalValid)
	}

	q := result.Questions[0]
	if q.Text != "What is 2+2?" {
		t.Errorf("unexpected text %q", q.Text)
	}
	if q.Answer == nil || *q.Answer != "B" {
		t.Errorf("expected canonical answer B, got %v", q.Answer)
	}
	if q.Section != "Math" {
		t.Errorf("unexpected section %q", q.Section)
	}
}

func TestProcessDocumentRecoversFencedJSON(t *testing.T) {
	gemini := &fakeGemini{
		generateVision: func(_ context.Context, _, _ string, _ [][]byte, _ float32, _ int32, _ bool) (string, error) {
			return "```json\n{\"questions\": [{\"text\": \"Pick\", \"options\": [\"a\", \"b\"], \"answer\": null, \"section\": \"\"}]}\n```", nil
		},
	}

	result := newTestExtractor(gemini).ProcessDocument(context.Background(), testPNG(t), "png")

	if !result.Success || result.TotalValid != 1 {
		t.Fatalf("expected 1 valid question from fenced response, got %+v", result)
	}
	if result.Questions[0].Answer != nil {
		t.Errorf("expected null answer to survive, got %v", *result.Questions[0].Answer)
	}
	if result.Questions[0].Section != "General" {
		t.Errorf("expected section default, got %q", result.Questions[0].Section)
	}
}

func TestProcessDocumentUnparseableChunkYieldsNoQuestions(t *testing.T) {
	gemini := &fakeGemini{
		generateVision: func(_ context.Context, _, _ string, _ [][]byte, _ float32, _ int32, _ bool) (string, error) {
			return "I refuse to answer in JSON.", nil
		},
	}

	result := newTestExtractor(gemini).ProcessDocument(context.Background(), testPNG(t), "png")

	if result.Success {
		t.Fatal("expected failure when no chunk parses")
	}
	if result.Error == nil || *result.Error != "No valid questions found" {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.TotalExtracted != 0 || result.TotalValid != 0 {
		t.Fatalf("expected zero counts, got %+v", result)
	}
	if result.Questions == nil {
		t.Fatal("questions must be an empty slice, not nil")
	}
}

func TestProcessDocumentAllCallsFailing(t *testing.T) {
	gemini := &fakeGemini{
		generateVision: func(_ context.Context, _, _ string, _ [][]byte, _ float32, _ int32, _ bool) (string, error) {
			return "", errors.New("backend unavailable")
		},
	}

	result := newTestExtractor(gemini).ProcessDocument(context.Background(), testPNG(t), "png")

	if result.Success {
		t.Fatal("expected failure when every chunk call fails")
	}
	if result.Error == nil {
		t.Fatal("expected error message")
	}
}

func TestProcessDocumentUnsupportedType(t *testing.T) {
	gemini := &fakeGemini{}

	result := newTestExtractor(gemini).ProcessDocument(context.Background(), []byte("plain text"), "txt")

	if result.Success {
		t.Fatal("expected failure for unsupported type")
	}
	if result.Error == nil {
		t.Fatal("expected error message")
	}
}
