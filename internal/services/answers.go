package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/retry"
)

// AnswerService records one answer per (session, question): it stores the
// audio, transcribes it, and upserts the answer row.
type AnswerService interface {
	SaveAnswer(ctx context.Context, sessionID uuid.UUID, userID, questionID string, file *multipart.FileHeader) (*models.UploadAnswerResponse, error)
}

type answerService struct {
	sessions     repositories.SessionRepository
	answers      repositories.AnswerRepository
	storage      StorageService
	gemini       GeminiService
	storageRetry retry.Policy
}

func NewAnswerService(
	sessions repositories.SessionRepository,
	answers repositories.AnswerRepository,
	storage StorageService,
	gemini GeminiService,
	storageRetry retry.Policy,
) AnswerService {
	return &answerService{
		sessions:     sessions,
		answers:      answers,
		storage:      storage,
		gemini:       gemini,
		storageRetry: storageRetry,
	}
}

func (s *answerService) SaveAnswer(ctx context.Context, sessionID uuid.UUID, userID, questionID string, file *multipart.FileHeader) (*models.UploadAnswerResponse, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, repositories.ErrNotFound)
	}
	if session.QuestionText(questionID) == "" {
		return nil, fmt.Errorf("%w: unknown question %q", ErrValidation, questionID)
	}

	filename, _, err := s.storage.SaveAudio(file, sessionID.String(), questionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	audio, err := readUpload(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded audio: %w", err)
	}

	// A failed transcription still records the answer; the analyzer skips
	// empty transcripts later.
	transcript, err := s.gemini.TranscribeAudio(ctx, audio, AudioMIMEType(filename))
	if err != nil {
		log.Printf("⚠️ Transcription failed for session %s question %s: %v", sessionID, questionID, err)
		transcript = ""
	}

	err = s.storageRetry.Do(ctx, func() error {
		return s.upsertAnswer(sessionID, questionID, filename, transcript)
	})
	if err != nil {
		return nil, err
	}

	if session.Status == models.StatusCreated {
		if err := s.sessions.UpdateStatus(sessionID, models.StatusInProgress); err != nil {
			log.Printf("⚠️ Failed to move session %s to in_progress: %v", sessionID, err)
		}
	}

	log.Printf("✅ Answer saved for session %s question %s", sessionID, questionID)

	return &models.UploadAnswerResponse{
		Transcript: transcript,
		AudioPath:  filename,
	}, nil
}

// upsertAnswer replaces a previous recording for the same question instead of
// duplicating the row.
func (s *answerService) upsertAnswer(sessionID uuid.UUID, questionID, filename, transcript string) error {
	existing, err := s.answers.FindBySessionAndQuestion(sessionID, questionID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return s.answers.Create(&models.Answer{
			ID:         uuid.New(),
			SessionID:  sessionID,
			QuestionID: questionID,
			AudioPath:  filename,
			Transcript: transcript,
		})
	}

	return s.answers.UpdateSubmission(existing.ID, filename, transcript)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
