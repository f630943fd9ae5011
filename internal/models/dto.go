package models

type CreateSessionResponse struct {
	SessionID       string     `json:"session_id"`
	Questions       []Question `json:"questions"`
	DurationSeconds int        `json:"duration_seconds"`
}

type SessionDetailResponse struct {
	Session *InterviewSession `json:"session"`
	Answers []Answer          `json:"answers"`
}

type UploadAnswerResponse struct {
	Transcript string `json:"transcript"`
	AudioPath  string `json:"audio_path"`
}

type AnalyzeResponse struct {
	Status     string  `json:"status"`
	FinalScore float64 `json:"final_score"`
}

type CompanySummary struct {
	Company
	QuestionCount int64 `json:"question_count"`
}

type CompanyDetailResponse struct {
	Company   *Company          `json:"company"`
	Questions []CompanyQuestion `json:"questions"`
}

type AddQuestionsRequest struct {
	Questions []ParsedQuestion `json:"questions"`
}

type AddQuestionsResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
