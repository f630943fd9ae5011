package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiService is the single generation backend collaborator: text and vision
// completion, embeddings, and audio transcription. It is constructed once and
// injected into every component that needs it.
type GeminiService interface {
	GenerateText(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error)
	GenerateVision(ctx context.Context, system, user string, images [][]byte, temperature float32, maxTokens int32, forceJSON bool) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(apiKey string) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
	}, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	return responseText(resp)
}

// GenerateVision implements GeminiService.
func (g *geminiService) GenerateVision(ctx context.Context, system, user string, images [][]byte, temperature float32, maxTokens int32, forceJSON bool) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if forceJSON {
		// Hint the backend to emit a single well-formed JSON object.
		config.ResponseMIMEType = "application/json"
	}

	parts := []*genai.Part{{Text: user}}
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "image/jpeg",
				Data:     img,
			},
		})
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate vision response: %w", err)
	}

	return responseText(resp)
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// TranscribeAudio implements GeminiService.
func (g *geminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	temperature := float32(0.0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You transcribe spoken interview answers. Return only the verbatim transcript, with no commentary and no formatting.",
			}},
		},
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: "Transcribe this recording."},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
		},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		// Try to extract any content from candidates if available
		if len(resp.Candidates) > 0 {
			var textParts []string
			for _, candidate := range resp.Candidates {
				if candidate.Content != nil {
					textParts = append(textParts, fmt.Sprintf("%v", candidate.Content))
				}
			}
			if len(textParts) > 0 {
				return strings.Join(textParts, "\n"), nil
			}
		}
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
