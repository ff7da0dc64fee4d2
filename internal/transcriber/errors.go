package transcriber

import (
	"fmt"
	"path/filepath"
)

// Error codes carried by TranscriptionError.
const (
	CodeInvalidInput    = "invalid_input"
	CodeAuth            = "auth"
	CodeNetwork         = "network"
	CodeHTTPStatus      = "http_status"
	CodeInvalidResponse = "invalid_response"
	CodeRemote          = "remote_error"
	CodeNoUtterances    = "no_utterances"
	CodeTimeout         = "timeout"
	CodeCanceled        = "canceled"
)

// TranscriptionError is every failure returned by Transcribe.
type TranscriptionError struct {
	Code       string
	Message    string
	AudioPath  string
	StatusCode int
	Err        error
}

func (e *TranscriptionError) Error() string {
	msg := fmt.Sprintf("transcribe %s: %s: %s", filepath.Base(e.AudioPath), e.Code, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
