package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	ErrNoAudioTrack      = errors.New("video has no audio track")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// MediaExtractionError reports a failed extraction step for one video.
type MediaExtractionError struct {
	VideoPath string
	Op        string
	Err       error
}

func (e *MediaExtractionError) Error() string {
	return fmt.Sprintf("extract audio from %s (%s): %v", filepath.Base(e.VideoPath), e.Op, e.Err)
}

func (e *MediaExtractionError) Unwrap() error {
	return e.Err
}
