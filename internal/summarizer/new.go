package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
)

// generateFunc sends prompt to the model using key and returns the response text.
type generateFunc func(ctx context.Context, key, model, prompt string) (string, error)

type implSummarizer struct {
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
	generate   generateFunc
	now        func() string
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) Summarizer {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implSummarizer{
		apiKeys:  apiKeys,
		logger:   log,
		model:    model,
		generate: geminiGenerate,
		now:      timestamp,
	}
}
