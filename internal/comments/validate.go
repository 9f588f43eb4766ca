package comments

import (
	"strings"
	"unicode/utf8"
)

const (
	MinLength = 2
	MaxLength = 1000
)

type Code string

const (
	CodeEmpty    Code = "EMPTY"
	CodeTooShort Code = "TOO_SHORT"
	CodeTooLong  Code = "TOO_LONG"
)

// Result is returned instead of an error so the caller can show it inline.
type Result struct {
	Valid bool
	Code  Code
	Error string
}

func Validate(content string) Result {
	trimmed := strings.TrimSpace(content)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case length == 0:
		return Result{Code: CodeEmpty, Error: "Comment cannot be empty"}
	case length < MinLength:
		return Result{Code: CodeTooShort, Error: "Comment is too short (min 2 characters)"}
	case length > MaxLength:
		return Result{Code: CodeTooLong, Error: "Comment is too long (max 1000 characters)"}
	}
	return Result{Valid: true}
}
