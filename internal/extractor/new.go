package extractor

import (
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
	"github.com/nguyentantai21042004/diarize-flow/pkg/executor"
)

// Options names the ffmpeg binaries to invoke.
type Options struct {
	FFmpegBinary string
	ProbeBinary  string
}

type implExtractor struct {
	executor executor.Executor
	logger   logger.Logger
	ffmpeg   string
	ffprobe  string
}

// New creates a new Extractor instance
func New(exec executor.Executor, log logger.Logger, opts Options) Extractor {
	if opts.FFmpegBinary == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if opts.ProbeBinary == "" {
		opts.ProbeBinary = "ffprobe"
	}

	return &implExtractor{
		executor: exec,
		logger:   log,
		ffmpeg:   opts.FFmpegBinary,
		ffprobe:  opts.ProbeBinary,
	}
}
