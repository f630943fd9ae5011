package services

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCleanTextStripsGlyphsAndWhitespace(t *testing.T) {
	cases := map[string]string{
		"■ What is    2+2?":      "What is 2+2?",
		"  leading and trailing ": "leading and trailing",
		"tabs\tand\nnewlines":     "tabs and newlines",
		"●□■":                     "",
		"":                        "",
	}

	for input, want := range cases {
		if got := CleanText(input); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	input := "■ What   is\tthe answer? "
	once := CleanText(input)
	if twice := CleanText(once); twice != once {
		t.Fatalf("CleanText not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizeQuestionDefaults(t *testing.T) {
	got := NormalizeQuestion(RawQuestion{
		Text:    "  What is   Go? ",
		Options: []string{" A language ", "", "■ A drink"},
		Section: "  ",
	})

	if got.Text != "What is Go?" {
		t.Errorf("unexpected text %q", got.Text)
	}
	if len(got.Options) != 2 || got.Options[0] != "A language" || got.Options[1] != "A drink" {
		t.Errorf("unexpected options %v", got.Options)
	}
	if got.Section != "General" {
		t.Errorf("expected default section, got %q", got.Section)
	}
	if got.Answer != nil {
		t.Errorf("expected nil answer, got %v", *got.Answer)
	}
}

func TestCanonicalizeAnswerVariants(t *testing.T) {
	cases := []struct {
		name  string
		input *string
		want  *string
	}{
		{"nil stays nil", nil, nil},
		{"exact letter", strPtr("B"), strPtr("B")},
		{"lowercase letter", strPtr("c"), strPtr("C")},
		{"padded letter", strPtr("  a "), strPtr("A")},
		{"labelled answer", strPtr("Answer: D"), strPtr("D")},
		{"first letter wins", strPtr("B or C"), strPtr("B")},
		{"no candidate", strPtr("42"), nil},
		{"empty string", strPtr("   "), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuestion(RawQuestion{Answer: tc.input}).Answer
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %q", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("expected %q, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("expected %q, got %q", *tc.want, *got)
			}
		})
	}
}

func TestCanonicalizeAnswerFirstLetterOfUppercased(t *testing.T) {
	// "answer: d" uppercases to "ANSWER: D" whose first A-D letter is the
	// leading A, not the labelled D.
	got := NormalizeQuestion(RawQuestion{Answer: strPtr("answer: d")}).Answer
	if got == nil || *got != "A" {
		t.Fatalf("expected A from scanning uppercased string, got %v", got)
	}
}

func TestValidateQuestion(t *testing.T) {
	valid := NormalizeQuestion(RawQuestion{
		Text:    "Pick one",
		Options: []string{"one", "two"},
	})
	if !ValidateQuestion(valid) {
		t.Fatal("expected question to be valid")
	}

	noText := NormalizeQuestion(RawQuestion{Options: []string{"one", "two"}})
	if ValidateQuestion(noText) {
		t.Fatal("question without text must be invalid")
	}

	oneOption := NormalizeQuestion(RawQuestion{Text: "Pick", Options: []string{"only"}})
	if ValidateQuestion(oneOption) {
		t.Fatal("question with one option must be invalid")
	}

	noAnswer := NormalizeQuestion(RawQuestion{Text: "Pick", Options: []string{"a", "b"}})
	if !ValidateQuestion(noAnswer) {
		t.Fatal("missing answer label must still be valid")
	}
}
