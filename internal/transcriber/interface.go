package transcriber

import "context"

// Transcriber turns an audio artifact into speaker-attributed utterances.
type Transcriber interface {
	// Transcribe submits audioPath (a local file or an http(s) URL) with speaker
	// diarization enabled and blocks until the service reaches a terminal state.
	// A successful result always carries at least one utterance.
	Transcribe(ctx context.Context, audioPath string, creds Credentials, opts Options) (*Result, error)
}
