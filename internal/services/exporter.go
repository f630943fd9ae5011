package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"ai-interviewer/internal/models"
)

// ReportService renders an analyzed session into downloadable report bytes.
type ReportService interface {
	BuildPDFReport(detail *models.SessionDetailResponse) ([]byte, error)
	BuildXLSXReport(detail *models.SessionDetailResponse) ([]byte, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// BuildPDFReport implements ReportService. One block per question: question
// text, transcript, score, feedback points and the model answer, followed by
// the session's final score.
func (r *reportService) BuildPDFReport(detail *models.SessionDetailResponse) ([]byte, error) {
	session := detail.Session

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Interview Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Session: %s", session.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Type: %s | Mode: %s", session.InterviewType, session.Mode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Duration: %d seconds", session.DurationSeconds), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", session.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	answersByQuestion := make(map[string]*models.Answer, len(detail.Answers))
	for i := range detail.Answers {
		answersByQuestion[detail.Answers[i].QuestionID] = &detail.Answers[i]
	}

	for i, question := range session.Questions {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("Q%d. %s", i+1, question.Text), "", "L", false)

		answer, ok := answersByQuestion[question.ID]
		if !ok {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, "No answer recorded.", "", "L", false)
			pdf.Ln(3)
			continue
		}

		pdf.SetFont("Helvetica", "", 10)
		transcript := answer.Transcript
		if transcript == "" {
			transcript = "(no transcript)"
		}
		pdf.MultiCell(0, 5, "Answer: "+transcript, "", "L", false)

		if answer.Score != nil {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, fmt.Sprintf("Score: %.2f / 10", *answer.Score), "", 1, "L", false, 0, "")
		} else {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.CellFormat(0, 6, "Not evaluated.", "", 1, "L", false, 0, "")
		}

		if len(answer.Feedback) > 0 {
			pdf.SetFont("Helvetica", "", 10)
			for _, point := range answer.Feedback {
				pdf.MultiCell(0, 5, "- "+point, "", "L", false)
			}
		}

		if answer.ModelAnswer != nil && *answer.ModelAnswer != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, "Model answer: "+*answer.ModelAnswer, "", "L", false)
		}

		pdf.Ln(3)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	if session.FinalScore != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Final Score: %.2f / 10", *session.FinalScore), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 8, "Final Score: not available", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF report: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildXLSXReport implements ReportService. One row per question with the
// transcript, score, joined feedback and model answer.
func (r *reportService) BuildXLSXReport(detail *models.SessionDetailResponse) ([]byte, error) {
	session := detail.Session

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Interview"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		f.DeleteSheet("Sheet1")
	}

	headers := []string{"#", "Question", "Transcript", "Score", "Feedback", "Model Answer"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	answersByQuestion := make(map[string]*models.Answer, len(detail.Answers))
	for i := range detail.Answers {
		answersByQuestion[detail.Answers[i].QuestionID] = &detail.Answers[i]
	}

	row := 2
	for i, question := range session.Questions {
		write := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, i+1)
		write(2, question.Text)

		if answer, ok := answersByQuestion[question.ID]; ok {
			write(3, answer.Transcript)
			if answer.Score != nil {
				write(4, *answer.Score)
			}
			feedback := ""
			for j, point := range answer.Feedback {
				if j > 0 {
					feedback += "\n"
				}
				feedback += point
			}
			write(5, feedback)
			if answer.ModelAnswer != nil {
				write(6, *answer.ModelAnswer)
			}
		}

		row++
	}

	row++
	finalCell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetCellValue(sheet, finalCell, "Final Score")
	if session.FinalScore != nil {
		scoreCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, scoreCell, *session.FinalScore)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render XLSX report: %w", err)
	}
	return buf.Bytes(), nil
}
