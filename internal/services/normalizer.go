package services

import (
	"regexp"
	"strings"

	"ai-interviewer/internal/models"
)

// RawQuestion is the extractor's per-record output before normalization.
// Fields may be missing or noisy; the normalizer fills defaults.
type RawQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  *string  `json:"answer"`
	Section string   `json:"section"`
}

var (
	markerGlyphs = strings.NewReplacer("■", "", "□", "", "●", "")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanText strips bullet/marker glyphs and collapses runs of whitespace into
// a single space.
func CleanText(text string) string {
	text = markerGlyphs.Replace(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// NormalizeQuestion cleans a raw record into its canonical shape. It is pure
// and total: any input shape yields a well-formed record, possibly one the
// validator will reject.
func NormalizeQuestion(raw RawQuestion) models.ParsedQuestion {
	options := make([]string, 0, len(raw.Options))
	for _, opt := range raw.Options {
		if cleaned := CleanText(opt); cleaned != "" {
			options = append(options, cleaned)
		}
	}

	section := CleanText(raw.Section)
	if section == "" {
		section = "General"
	}

	return models.ParsedQuestion{
		Text:    CleanText(raw.Text),
		Options: options,
		Answer:  canonicalizeAnswer(raw.Answer),
		Section: section,
	}
}

// ValidateQuestion accepts a record iff it has question text and at least two
// options. A missing answer label is still valid.
func ValidateQuestion(q models.ParsedQuestion) bool {
	return q.Text != "" && len(q.Options) >= 2
}

// canonicalizeAnswer maps a raw answer label to exactly one of A-D or nil:
// an exact single letter is uppercased, otherwise the first A-D letter found
// in the string wins.
func canonicalizeAnswer(raw *string) *string {
	if raw == nil {
		return nil
	}

	answer := strings.ToUpper(strings.TrimSpace(*raw))
	if answer == "" {
		return nil
	}

	if len(answer) == 1 && answer[0] >= 'A' && answer[0] <= 'D' {
		return &answer
	}

	for _, r := range answer {
		if r >= 'A' && r <= 'D' {
			letter := string(r)
			return &letter
		}
	}

	return nil
}
