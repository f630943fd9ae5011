package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedAudioExtensions = map[string]string{
	".webm": "audio/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
}

// StorageService persists uploaded answer recordings under the configured
// upload directory.
type StorageService interface {
	SaveAudio(file *multipart.FileHeader, sessionID, questionID string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveAudio writes the uploaded recording to a unique file and returns its
// stored filename, full path and MIME type. The write goes through a temp
// file so a crash never leaves a partial recording under the final name.
func (s *storageService) SaveAudio(file *multipart.FileHeader, sessionID, questionID string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedAudioExtensions[ext]; !ok {
		return "", "", fmt.Errorf("invalid audio extension: %s", ext)
	}

	uniqueFilename := fmt.Sprintf("%s_%s_%s%s", sessionID, questionID, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.uploadPath, "upload-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("failed to close destination file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// AudioMIMEType maps a stored filename's extension to its MIME type,
// defaulting to webm for unknown extensions.
func AudioMIMEType(filename string) string {
	if mime, ok := allowedAudioExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return "audio/webm"
}
