package models

// ParsedQuestion is one normalized multiple-choice question extracted from a
// document. Answer is one of A-D or null when no answer label was detected.
type ParsedQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  *string  `json:"answer"`
	Section string   `json:"section"`
}

// ExtractionResult is the single terminal artifact of the document extraction
// pipeline. TotalExtracted counts raw records before validation; Success is
// true iff at least one record survived it.
type ExtractionResult struct {
	Success        bool             `json:"success"`
	Questions      []ParsedQuestion `json:"questions"`
	TotalExtracted int              `json:"total_extracted"`
	TotalValid     int              `json:"total_valid"`
	Error          *string          `json:"error"`
}

// FailedExtraction builds the zero-count failure shape used for document-level
// faults (rasterization failure, every chunk call failing).
func FailedExtraction(message string) *ExtractionResult {
	return &ExtractionResult{
		Success:   false,
		Questions: []ParsedQuestion{},
		Error:     &message,
	}
}
