package services

import (
	"fmt"

	"ai-interviewer/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionSystemPrompt returns the fixed extraction contract sent with
// every chunk of page images.
func (pb *PromptBuilder) BuildExtractionSystemPrompt() string {
	return `You are an expert at extracting Multiple Choice Questions (MCQ) from exam papers and question documents.

Your task is to analyze the provided images and extract ALL MCQ questions with their options and correct answers.

IMPORTANT RULES:
1. Extract EVERY question you find, even if some information seems incomplete
2. Questions may be numbered (1., 2., Q1, Q.1, etc.) or unnumbered
3. Options are typically labeled A), B), C), D) or A., B., C., D. or similar
4. Answers may be indicated as "Answer: A", "Ans: B", "Correct Answer: C", or just "A", "B", "C", "D"
5. A question may span multiple lines
6. Options may be on separate lines or same line
7. Extract the section/topic if mentioned (e.g., "Mathematics", "Physics", etc.)

OUTPUT FORMAT (JSON only, no other text):
{
  "questions": [
    {
      "text": "Full question text here",
      "options": ["Option A text", "Option B text", "Option C text", "Option D text"],
      "answer": "A" or "B" or "C" or "D",
      "section": "Section name if available, else 'General'"
    }
  ]
}

CRITICAL:
- Return ONLY valid JSON
- Ensure all questions have at least 2 options
- Answer must be A, B, C, or D (uppercase)
- If answer is not found, set answer to null
- If section is not found, set section to "General"
- Extract ALL questions, don't skip any`
}

func (pb *PromptBuilder) BuildExtractionUserPrompt(pageCount int) string {
	return fmt.Sprintf(`Analyze these %d page(s) of the exam paper and extract all MCQ questions.

Return the questions in the exact JSON format specified. Extract every question you can find.`, pageCount)
}

// BuildQuestionGenerationPrompts returns the system and user prompts for
// generating interview questions from a job description and resume.
func (pb *PromptBuilder) BuildQuestionGenerationPrompts(jobDescription, resumeText string, questionCount, durationSeconds int) (string, string) {
	system := fmt.Sprintf(`You are an expert interviewer.
Produce ONLY valid JSON in this exact structure:
{
  "questions": [
     {"id": "q1", "text": "Example question?", "estimated_seconds": 90}
  ]
}

RULES:
- Generate exactly %d questions.
- IDs must be q1, q2, q3 ... in order.
- Each question MUST relate to the job description & resume.
- Each question MUST have "estimated_seconds": 90.
- Do NOT include explanations. Output ONLY JSON.`, questionCount)

	user := fmt.Sprintf(`Job Description:
%s

Resume:
%s

Total Interview Duration (seconds): %d

Generate exactly %d structured interview questions.`, jobDescription, resumeText, durationSeconds, questionCount)

	return system, user
}

// BuildReferenceAnswerPrompts returns the system and user prompts producing
// one ideal answer for a question. The template varies by interview type.
func (pb *PromptBuilder) BuildReferenceAnswerPrompts(question, jobDescription, resumeText string, interviewType models.InterviewType) (string, string) {
	var system string
	if interviewType == models.TypeHR {
		system = `You are an HR interview expert. Write a concise, high-quality, ideal answer to the question below.
Frame the answer behaviorally using situation, task, action and result. Emphasize communication, motivation and culture fit.
Return a single plain-text paragraph with no markup.`
	} else {
		system = `You are a senior technical interviewer. Write a concise, high-quality, ideal answer to the question below.
Emphasize technical depth, correctness and concrete reasoning.
Return a single plain-text paragraph with no markup.`
	}

	user := fmt.Sprintf(`Job Description:
%s

Resume Summary:
%s

Question:
%s`, jobDescription, resumeText, question)

	return system, user
}

// BuildEvaluationPrompts returns the system and user prompts scoring a
// transcript against a reference answer on the fixed five-part rubric.
func (pb *PromptBuilder) BuildEvaluationPrompts(question, transcript, referenceAnswer string, interviewType models.InterviewType) (string, string) {
	var rubric string
	if interviewType == models.TypeHR {
		rubric = `- relevance: how directly the answer addresses the question (1-10)
- accuracy: honesty and internal consistency of the story (1-10)
- depth: richness of situation, actions and outcomes described (1-10)
- clarity: structure and communication quality (1-10)
- fit: alignment with the role's behavioral expectations (1-10)`
	} else {
		rubric = `- relevance: how directly the answer addresses the question (1-10)
- accuracy: technical correctness of the claims made (1-10)
- depth: level of technical detail and reasoning (1-10)
- clarity: structure and communication quality (1-10)
- fit: alignment with the role's technical requirements (1-10)`
	}

	system := fmt.Sprintf(`You are an expert interviewer. Evaluate the answer strictly.

Score each rubric item from 1 to 10:
%s

Compute total_score as the average of the five scores, rounded to one decimal, on the 1-10 scale.

Return ONLY JSON in this form:
{
  "scores": {
    "relevance": int,
    "accuracy": int,
    "depth": int,
    "clarity": int,
    "fit": int
  },
  "total_score": number,
  "feedback": ["point 1", "point 2"],
  "comparison_summary": "one sentence comparing the answer to the reference"
}`, rubric)

	user := fmt.Sprintf(`Question: %s

Candidate Answer:
%s

Ideal Reference Answer:
%s

Score objectively. Penalize vague or incorrect answers.`, question, transcript, referenceAnswer)

	return system, user
}
