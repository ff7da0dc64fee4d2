package processor

import "context"

// Processor drives the batch: discover videos, extract audio, transcribe, write transcripts.
type Processor interface {
	// Run processes every video in the input directory. Per-file failures are
	// recorded in the Summary and never abort the batch.
	Run(ctx context.Context) (*Summary, error)
	// ProcessFile runs the pipeline for a single video.
	ProcessFile(ctx context.Context, videoPath string) error
}

// ProgressFunc starts a progress indicator and returns the function that stops it.
type ProgressFunc func(description string) (stop func())

// Summary is the outcome of one batch.
type Summary struct {
	Discovered int
	// Videos lists the discovered paths in processing order.
	Videos      []string
	Transcribed int
	Failures    []*FileError
}

// Failed is the number of videos that ended in StateFailed.
func (s *Summary) Failed() int {
	return len(s.Failures)
}
