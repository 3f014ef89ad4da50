package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"task-management/internal/model"
)

func requireText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	if n := utf8.RuneCountInString(trimmed); n > maxLen {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("has %d characters, max is %d", n, maxLen)}
	}
	return trimmed, nil
}

func validatePage(page model.PageRequest) error {
	if page.Page < 0 {
		return &ValidationError{Field: "page", Reason: "must not be negative"}
	}
	if page.Size < 1 || page.Size > model.MaxPageSize {
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("must be between 1 and %d", model.MaxPageSize)}
	}
	return nil
}
