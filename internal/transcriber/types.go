package transcriber

import "time"

// Credentials authenticate a single request. They are passed per call and
// never stored on the client.
type Credentials struct {
	APIKey string
}

// Options tune one transcription request.
type Options struct {
	Speakers SpeakerCount
}

// Utterance is one diarized speech segment. Start and End are offsets in milliseconds.
type Utterance struct {
	Speaker    string
	Text       string
	Start      int64
	End        int64
	Confidence float64
}

// Result is a completed transcription.
type Result struct {
	ID            string
	Utterances    []Utterance
	AudioDuration time.Duration
	Words         int
}
