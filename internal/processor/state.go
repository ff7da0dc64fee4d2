package processor

import (
	"fmt"
	"path/filepath"
)

// State is the per-file pipeline position.
type State string

const (
	StateDiscovered        State = "discovered"
	StateAudioExtracting   State = "audio_extracting"
	StateAudioReady        State = "audio_ready"
	StateTranscribing      State = "transcribing"
	StateTranscriptWritten State = "transcript_written"
	StateFailed            State = "failed"
)

// FileError records which step a video failed in.
type FileError struct {
	Video string
	State State
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s failed while %s: %v", filepath.Base(e.Video), e.State, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
