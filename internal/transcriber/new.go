package transcriber

import (
	"net/http"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
)

// Config describes the remote service endpoint and wait bounds.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	HTTPClient   *http.Client
}

type implTranscriber struct {
	baseURL      string
	timeout      time.Duration
	pollInterval time.Duration
	httpClient   *http.Client
	logger       logger.Logger
}

// New creates an AssemblyAI-backed Transcriber.
func New(cfg Config, log logger.Logger) Transcriber {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.assemblyai.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Minute}
	}

	return &implTranscriber{
		baseURL:      cfg.BaseURL,
		timeout:      cfg.Timeout,
		pollInterval: cfg.PollInterval,
		httpClient:   cfg.HTTPClient,
		logger:       log,
	}
}

// client builds an SDK client bound to one set of credentials.
func (t *implTranscriber) client(creds Credentials) *aai.Client {
	return aai.NewClientWithOptions(
		aai.WithAPIKey(creds.APIKey),
		aai.WithBaseURL(t.baseURL),
		aai.WithHTTPClient(t.httpClient),
	)
}
