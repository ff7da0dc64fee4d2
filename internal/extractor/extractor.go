package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type encoding struct {
	codec  string
	muxer  string
	extras []string
}

// encodings maps an artifact extension to the ffmpeg codec and muxer producing it.
var encodings = map[string]encoding{
	"mp3":  {codec: "libmp3lame", muxer: "mp3", extras: []string{"-q:a", "2"}},
	"wav":  {codec: "pcm_s16le", muxer: "wav"},
	"m4a":  {codec: "aac", muxer: "ipod", extras: []string{"-b:a", "192k"}},
	"flac": {codec: "flac", muxer: "flac"},
	"ogg":  {codec: "libvorbis", muxer: "ogg", extras: []string{"-q:a", "5"}},
}

// Extract decodes the audio track of videoPath and writes it to outputPath.
// The encoder writes to a temporary file next to outputPath which is renamed
// into place only after ffmpeg succeeds, so an existing outputPath is always complete.
func (x *implExtractor) Extract(ctx context.Context, videoPath, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		x.logger.Info(ctx, "Audio already exists, skipping %s", filepath.Base(videoPath))
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &MediaExtractionError{VideoPath: videoPath, Op: "stat", Err: err}
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(outputPath), "."))
	enc, ok := encodings[format]
	if !ok {
		return &MediaExtractionError{VideoPath: videoPath, Op: "format", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}

	if err := x.probeAudio(ctx, videoPath); err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+stem+"-*.part")
	if err != nil {
		return &MediaExtractionError{VideoPath: videoPath, Op: "tempfile", Err: err}
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	committed := false
	defer func() {
		if !committed {
			if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				x.logger.Warn(ctx, "Failed to cleanup partial audio %s: %v", tmpPath, err)
			}
		}
	}()

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", videoPath,
		"-vn",
		"-map", "0:a:0",
		"-c:a", enc.codec,
	}
	args = append(args, enc.extras...)
	args = append(args, "-f", enc.muxer, tmpPath)

	x.logger.Debug(ctx, "Encoding %s audio: %s -> %s", format, videoPath, tmpPath)

	if _, err := x.executor.Execute(ctx, x.ffmpeg, args...); err != nil {
		return &MediaExtractionError{VideoPath: videoPath, Op: "encode", Err: err}
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return &MediaExtractionError{VideoPath: videoPath, Op: "rename", Err: err}
	}
	committed = true

	x.logger.Info(ctx, "Audio extracted successfully: %s", outputPath)
	return nil
}

// probeAudio fails with ErrNoAudioTrack when ffprobe lists no audio stream.
func (x *implExtractor) probeAudio(ctx context.Context, videoPath string) error {
	out, err := x.executor.Execute(ctx, x.ffprobe,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		videoPath,
	)
	if err != nil {
		return &MediaExtractionError{VideoPath: videoPath, Op: "probe", Err: err}
	}
	if strings.TrimSpace(out) == "" {
		return &MediaExtractionError{VideoPath: videoPath, Op: "probe", Err: ErrNoAudioTrack}
	}
	return nil
}
