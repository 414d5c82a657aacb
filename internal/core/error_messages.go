package core

// error_messages.go maps technical errors to messages a user can act on.
//
// Each message carries a code that support can look up:
//
//	FILE001 - File too large: the upload exceeds the size limit
//	          Action: Split the file or remove unused columns
//	FILE003 - Read error: the file could not be read
//	          Action: Check the file and select it again
//	FILE004 - No file: no file was selected
//	          Action: Choose a CSV file to load
//	FILE005 - Too many rows: the file has more data rows than allowed
//	          Action: Split the file into smaller parts
//	UPL002  - System busy: too many files are being loaded
//	          Action: Wait a moment and try again
//	UPL004  - Request cancelled
//	UPL005  - Request timed out
//	SORT001 - Invalid direction: the sort direction is not asc or desc
//	          Action: Choose ascending or descending
//	SORT002 - Invalid column: the sort column is not a non-negative number
//	RATE001 - Rate limited: too many requests
//	ERR000  - Unknown error
//
// Sentinel errors are matched with errors.Is first. Errors that only carry
// text (from the standard library or the HTTP layer) fall back to
// case-insensitive substring patterns; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColumn is returned when a sort column cannot be parsed.
var ErrInvalidColumn = errors.New("invalid sort column")

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file or remove unused columns",
		Code:    "FILE001",
	}
	msgReadFailed = UserMessage{
		Message: "The file could not be read",
		Action:  "Check the file and select it again",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose a CSV file to load",
		Code:    "FILE004",
	}
	msgTooManyRows = UserMessage{
		Message: "File has too many rows",
		Action:  "Split the file into smaller parts",
		Code:    "FILE005",
	}
	msgBusy = UserMessage{
		Message: "Too many files are being loaded right now",
		Action:  "Wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgBadDirection = UserMessage{
		Message: "Sort direction must be ascending or descending",
		Action:  "Choose asc or desc",
		Code:    "SORT001",
	}
	msgBadColumn = UserMessage{
		Message: "Sort column must be a column number starting at 0",
		Action:  "Check the column parameter",
		Code:    "SORT002",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrNoFile, msgNoFile},
	{ErrTooManyRows, msgTooManyRows},
	{ErrTooManyLoads, msgBusy},
	{ErrInvalidDirection, msgBadDirection},
	{ErrInvalidColumn, msgBadColumn},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"request body too large", msgFileTooLarge},
	{"file too large", msgFileTooLarge},
	{"no such file", msgNoFile},
	{"rate limit", msgRateLimited},
	{"too many concurrent", msgBusy},
	{"read csv", msgReadFailed},
	{"multipart", msgReadFailed},
}

// MapError returns the user message for err. A nil error maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // original error, for logs
	User      UserMessage // what the user sees
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped message. A nil error gives nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
