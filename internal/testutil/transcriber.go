package testutil

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/diarize-flow/internal/transcriber"
)

// FakeTranscriber returns canned utterances keyed by audio base name.
type FakeTranscriber struct {
	mu sync.Mutex

	// Default is returned for audio without an entry in Results.
	Default []transcriber.Utterance
	Results map[string][]transcriber.Utterance
	Errors  map[string]error

	calls   []string
	creds   []transcriber.Credentials
	options []transcriber.Options
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, audioPath string, creds transcriber.Credentials, opts transcriber.Options) (*transcriber.Result, error) {
	base := filepath.Base(audioPath)

	f.mu.Lock()
	f.calls = append(f.calls, base)
	f.creds = append(f.creds, creds)
	f.options = append(f.options, opts)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errors[base]; ok {
		return nil, err
	}

	utterances, ok := f.Results[base]
	if !ok {
		utterances = f.Default
	}
	if len(utterances) == 0 {
		return nil, &transcriber.TranscriptionError{Code: transcriber.CodeNoUtterances, Message: "no utterances", AudioPath: audioPath}
	}

	return &transcriber.Result{
		ID:         "fake-" + base,
		Utterances: utterances,
		Words:      transcriber.CountWords(utterances),
	}, nil
}

// Calls lists the audio base names submitted so far.
func (f *FakeTranscriber) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Credentials lists the credentials passed with each call.
func (f *FakeTranscriber) Credentials() []transcriber.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transcriber.Credentials(nil), f.creds...)
}

// Options lists the options passed with each call.
func (f *FakeTranscriber) Options() []transcriber.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transcriber.Options(nil), f.options...)
}
