package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
	"github.com/nguyentantai21042004/diarize-flow/internal/transcriber"
)

// Run discovers the videos in the input directory and processes each of them.
// A missing input directory is fatal; an empty one is not.
func (p *implProcessor) Run(ctx context.Context) (*Summary, error) {
	log := p.logger.With("run_id", uuid.NewString())

	videos, err := Discover(p.cfg.Paths.Input)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Discovered: len(videos), Videos: videos}
	if len(videos) == 0 {
		log.Info(ctx, "No video files found in %s", p.cfg.Paths.Input)
		log.Info(ctx, "Completed processing 0 file(s)")
		return summary, nil
	}

	log.Info(ctx, "Found %d video file(s)", len(videos))

	results := make([]error, len(videos))
	pool := newLimiter(p.cfg.Performance.MaxConcurrent)

	for i, video := range videos {
		err := pool.Go(ctx, func() {
			results[i] = p.processFile(ctx, video, log)
		})
		if err != nil {
			for j := i; j < len(videos); j++ {
				results[j] = &FileError{Video: videos[j], State: StateDiscovered, Err: err}
			}
			break
		}
	}
	pool.Wait()

	for i, err := range results {
		switch fe := err.(type) {
		case nil:
			summary.Transcribed++
		case *FileError:
			summary.Failures = append(summary.Failures, fe)
		default:
			summary.Failures = append(summary.Failures, &FileError{Video: videos[i], State: StateFailed, Err: err})
		}
	}

	log.Info(ctx, "Completed processing %d file(s): %d transcribed, %d failed",
		summary.Discovered, summary.Transcribed, summary.Failed())

	p.flushMetrics(ctx, log)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ProcessFile runs extraction, transcription and transcript writing for one video.
func (p *implProcessor) ProcessFile(ctx context.Context, videoPath string) error {
	err := p.processFile(ctx, videoPath, p.logger)
	p.flushMetrics(ctx, p.logger)
	return err
}

func (p *implProcessor) processFile(ctx context.Context, videoPath string, log logger.Logger) error {
	// Videos reached after cancellation fail without touching the filesystem.
	if err := ctx.Err(); err != nil {
		return &FileError{Video: videoPath, State: StateDiscovered, Err: err}
	}

	name := filepath.Base(videoPath)
	log = log.With("file", name)
	paths := DerivePaths(videoPath, p.cfg.Paths.Output, p.cfg.Audio.Format)

	log.Info(ctx, "Processing: %s", name)

	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return p.fail(ctx, log, videoPath, StateDiscovered, fmt.Errorf("create output directory: %w", err))
	}

	p.enter(ctx, log, StateAudioExtracting)
	log.Info(ctx, "Extracting audio to %s", filepath.Base(paths.Audio))
	if err := p.extractor.Extract(ctx, videoPath, paths.Audio); err != nil {
		return p.fail(ctx, log, videoPath, StateAudioExtracting, err)
	}
	p.enter(ctx, log, StateAudioReady)

	p.enter(ctx, log, StateTranscribing)
	start := time.Now()
	stop := p.progress(fmt.Sprintf("Transcribing %s", name))
	result, err := p.transcriber.Transcribe(ctx, paths.Audio, p.creds, transcriber.Options{Speakers: p.speakers})
	stop()
	if err != nil {
		return p.fail(ctx, log, videoPath, StateTranscribing, err)
	}
	elapsed := time.Since(start)

	if err := WriteTranscript(paths.Transcript, result.Utterances); err != nil {
		return p.fail(ctx, log, videoPath, StateTranscribing, err)
	}
	p.enter(ctx, log, StateTranscriptWritten)

	p.metrics.observeTranscribed(elapsed, result.AudioDuration, len(result.Utterances), result.Words)
	log.Info(ctx, "Saved transcript to %s", filepath.Base(paths.Transcript))
	return nil
}

func (p *implProcessor) enter(ctx context.Context, log logger.Logger, state State) {
	log.Debug(ctx, "State -> %s", state)
}

func (p *implProcessor) fail(ctx context.Context, log logger.Logger, videoPath string, at State, err error) error {
	p.metrics.observeFailed(at)
	log.Error(ctx, "ERROR while %s: %v", at, err)
	log.Info(ctx, "Skipping this file and continuing...")
	return &FileError{Video: videoPath, State: at, Err: err}
}

func (p *implProcessor) flushMetrics(ctx context.Context, log logger.Logger) {
	path := p.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := p.metrics.WriteTextfile(path); err != nil {
		log.Warn(ctx, "Failed to write metrics textfile %s: %v", path, err)
		return
	}
	log.Debug(ctx, "Metrics written to %s", path)
}
