package services

import "errors"

// ErrValidation marks request-shape failures the handlers translate to a 400
// response. Wrap it with context: fmt.Errorf("%w: duration too short", ErrValidation).
var ErrValidation = errors.New("validation failed")

// RasterizationError reports that a document could not be rendered into page
// images. It is non-retryable; the extractor converts it into a failed
// ExtractionResult instead of propagating it.
type RasterizationError struct {
	Err error
}

func (e *RasterizationError) Error() string {
	return "rasterization failed: " + e.Err.Error()
}

func (e *RasterizationError) Unwrap() error {
	return e.Err
}

// EvaluationParseError reports that an evaluation response stayed malformed
// after the fenced-block fallback. The orchestrator skips the affected answer.
type EvaluationParseError struct {
	Err error
}

func (e *EvaluationParseError) Error() string {
	return "evaluation response could not be parsed: " + e.Err.Error()
}

func (e *EvaluationParseError) Unwrap() error {
	return e.Err
}
