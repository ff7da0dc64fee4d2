package processor

import (
	"github.com/nguyentantai21042004/diarize-flow/internal/config"
	"github.com/nguyentantai21042004/diarize-flow/internal/extractor"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
	"github.com/nguyentantai21042004/diarize-flow/internal/transcriber"
)

// Deps are the collaborators a Processor drives.
type Deps struct {
	Extractor   extractor.Extractor
	Transcriber transcriber.Transcriber
	Credentials transcriber.Credentials
	Logger      logger.Logger
	// Metrics defaults to a fresh registry.
	Metrics *Metrics
	// Progress is optional.
	Progress ProgressFunc
}

type implProcessor struct {
	cfg         *config.Config
	extractor   extractor.Extractor
	transcriber transcriber.Transcriber
	creds       transcriber.Credentials
	speakers    transcriber.SpeakerCount
	logger      logger.Logger
	metrics     *Metrics
	progress    ProgressFunc
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps) Processor {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Progress == nil {
		deps.Progress = func(string) func() { return func() {} }
	}

	s := cfg.Transcription.Speakers
	return &implProcessor{
		cfg:         cfg,
		extractor:   deps.Extractor,
		transcriber: deps.Transcriber,
		creds:       deps.Credentials,
		speakers:    transcriber.SpeakersFromHints(s.Expected, s.Min, s.Max),
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		progress:    deps.Progress,
	}
}
