package extractor

import "context"

// Extractor produces an audio artifact from a video file.
type Extractor interface {
	// Extract writes the audio track of videoPath to outputPath. It is a no-op
	// when outputPath already exists.
	Extract(ctx context.Context, videoPath, outputPath string) error
}
