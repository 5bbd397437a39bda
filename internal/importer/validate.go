package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/scene"
)

// ValidationError collects every problem found in an input record.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "invalid applet record: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

// ErrQuestionRequired is reported when question_text is empty.
var ErrQuestionRequired = errors.New("question_text is required")

// ValidateRecord checks the record for errors before any external call.
// Returns a slice of all validation errors found.
func ValidateRecord(rec *domain.AppletRecord) []error {
	var errs []error

	if strings.TrimSpace(rec.QuestionText) == "" {
		errs = append(errs, ErrQuestionRequired)
	}

	errs = append(errs, validateList(PrefixGiven, rec.Given)...)
	errs = append(errs, validateList(PrefixToFind, rec.ToFind)...)
	errs = append(errs, validateList(PrefixComputeStep, rec.ComputeSteps)...)
	errs = append(errs, validateList(PrefixCheckStep, rec.CheckSteps)...)
	errs = append(errs, ValidateConnectQuestions(rec.ConnectQuestions)...)

	if rec.HasScene() {
		errs = append(errs, scene.Validate(rec.Scene)...)
	}
	return errs
}

// Validate wraps ValidateRecord into a single error, or nil.
func Validate(rec *domain.AppletRecord) error {
	if errs := ValidateRecord(rec); len(errs) > 0 {
		return &ValidationError{Errs: errs}
	}
	return nil
}

func validateList(prefix string, items []string) []error {
	var errs []error
	for i, v := range items {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s_%d must not be empty", prefix, i+1))
		}
	}
	return errs
}

// ValidateConnectQuestions requires question text and at least one correct
// and one incorrect non-empty option per question.
func ValidateConnectQuestions(qs []domain.ConnectQuestion) []error {
	var errs []error
	for i, q := range qs {
		prefix := fmt.Sprintf("%s_%d", PrefixConnectQ, i+1)
		if strings.TrimSpace(q.Question) == "" {
			errs = append(errs, fmt.Errorf("%s: question text is required", prefix))
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				errs = append(errs, fmt.Errorf("%s: option %d has no text", prefix, j+1))
			}
		}
		if q.CorrectCount() == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one correct option is required", prefix))
		}
		if q.WrongCount() == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one incorrect option is required", prefix))
		}
	}
	return errs
}
