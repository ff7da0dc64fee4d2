package transcriber

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type wireSpeakerOptions struct {
	MinSpeakersExpected int `json:"min_speakers_expected,omitempty"`
	MaxSpeakersExpected int `json:"max_speakers_expected,omitempty"`
}

type wireRequest struct {
	AudioURL         string              `json:"audio_url"`
	SpeakerLabels    bool                `json:"speaker_labels"`
	SpeakersExpected int                 `json:"speakers_expected,omitempty"`
	SpeakerOptions   *wireSpeakerOptions `json:"speaker_options,omitempty"`
}

type wireUtterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

type wireTranscript struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	AudioDuration int64           `json:"audio_duration,omitempty"`
	Utterances    []wireUtterance `json:"utterances"`
}

type wireError struct {
	Error string `json:"error"`
}

// fakeService mimics the upload / submit / poll endpoints.
type fakeService struct {
	mu sync.Mutex

	statuses   []string
	final      wireTranscript
	polls      int
	uploads    int
	uploaded   []byte
	submitted  wireRequest
	authHeader string

	uploadStatus int
	submitStatus int
	errorMessage string
}

func (f *fakeService) fail(w http.ResponseWriter, status int, fallback string) {
	msg := f.errorMessage
	if msg == "" {
		msg = fallback
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(wireError{Error: msg})
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.uploads++
		f.authHeader = r.Header.Get("Authorization")
		f.uploaded, _ = io.ReadAll(r.Body)
		if f.uploadStatus != 0 {
			f.fail(w, f.uploadStatus, "Invalid API key")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/abc"})
	})

	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.submitStatus != 0 {
			f.fail(w, f.submitStatus, "boom")
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.submitted)
		_ = json.NewEncoder(w).Encode(wireTranscript{ID: "tr_1", Status: "queued"})
	})

	mux.HandleFunc("GET /v2/transcript/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		status := f.final.Status
		if f.polls < len(f.statuses) {
			status = f.statuses[f.polls]
		}
		f.polls++

		resp := f.final
		resp.ID = r.PathValue("id")
		resp.Status = status
		if status != "completed" && status != "error" {
			resp.Utterances = nil
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	return mux
}

func newTestTranscriber(t *testing.T, svc *fakeService, timeout time.Duration) Transcriber {
	t.Helper()
	return newLoggedTranscriber(t, svc, timeout, logger.NewNop())
}

func newLoggedTranscriber(t *testing.T, svc *fakeService, timeout time.Duration, log logger.Logger) Transcriber {
	t.Helper()
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL:      srv.URL,
		Timeout:      timeout,
		PollInterval: 5 * time.Millisecond,
		HTTPClient:   srv.Client(),
	}, log)
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio-bytes"), 0o644))
	return path
}

func completed(utterances ...wireUtterance) wireTranscript {
	return wireTranscript{Status: "completed", AudioDuration: 90, Utterances: utterances}
}

func TestTranscribeReturnsUtterancesInOrder(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		statuses: []string{"processing", "processing"},
		final: completed(
			wireUtterance{Speaker: "A", Text: "Hello there.", Start: 0, End: 1200, Confidence: 0.9},
			wireUtterance{Speaker: "B", Text: "Hi, how are you doing?", Start: 1300, End: 2500},
			wireUtterance{Speaker: "A", Text: "Fine.", Start: 2600, End: 3000},
		),
	}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	res, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "key-1"}, Options{})
	require.NoError(t, err)

	require.Equal(t, "tr_1", res.ID)
	require.Equal(t, []Utterance{
		{Speaker: "A", Text: "Hello there.", Start: 0, End: 1200, Confidence: 0.9},
		{Speaker: "B", Text: "Hi, how are you doing?", Start: 1300, End: 2500},
		{Speaker: "A", Text: "Fine.", Start: 2600, End: 3000},
	}, res.Utterances)
	require.Equal(t, 90*time.Second, res.AudioDuration)
	require.Equal(t, 8, res.Words)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Equal(t, 1, svc.uploads)
	require.Equal(t, "audio-bytes", string(svc.uploaded))
	require.Equal(t, "key-1", svc.authHeader)
	require.Equal(t, "https://cdn.example/upload/abc", svc.submitted.AudioURL)
	require.True(t, svc.submitted.SpeakerLabels)
	require.Equal(t, 3, svc.polls)
}

func TestTranscribeSendsSpeakerHints(t *testing.T) {
	t.Parallel()

	svc := &fakeService{final: completed(wireUtterance{Speaker: "A", Text: "hi"})}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{Speakers: SpeakerRange(2, 3)})
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Zero(t, svc.submitted.SpeakersExpected)
	require.Equal(t, &wireSpeakerOptions{MinSpeakersExpected: 2, MaxSpeakersExpected: 3}, svc.submitted.SpeakerOptions)
}

func TestTranscribeRemoteURLSkipsUpload(t *testing.T) {
	t.Parallel()

	svc := &fakeService{final: completed(wireUtterance{Speaker: "A", Text: "hi"})}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), "https://media.example/talk.mp3", Credentials{APIKey: "k"}, Options{Speakers: ExactSpeakers(2)})
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Zero(t, svc.uploads)
	require.Equal(t, "https://media.example/talk.mp3", svc.submitted.AudioURL)
	require.Equal(t, 2, svc.submitted.SpeakersExpected)
}

func TestTranscribeZeroUtterancesIsFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{final: completed()}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	res, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{})
	require.Nil(t, res)

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeNoUtterances, trErr.Code)
	require.Contains(t, err.Error(), "no utterances")
}

func TestTranscribeRemoteError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		statuses: []string{"processing"},
		final:    wireTranscript{Status: "error", Error: "Audio file could not be decoded"},
	}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeRemote, trErr.Code)
	require.Contains(t, trErr.Message, "Audio file could not be decoded")
}

func TestTranscribeAuthFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{uploadStatus: http.StatusUnauthorized}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "bad"}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeAuth, trErr.Code)
	require.Equal(t, http.StatusUnauthorized, trErr.StatusCode)
	require.Equal(t, "Invalid API key", trErr.Message)
}

func TestTranscribeHTTPStatusFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{submitStatus: http.StatusInternalServerError}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeHTTPStatus, trErr.Code)
	require.Equal(t, http.StatusInternalServerError, trErr.StatusCode)
}

func TestTranscribeErrorMessageStaysValidUTF8(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		uploadStatus: http.StatusBadRequest,
		errorMessage: strings.Repeat("a", 199) + "é" + "tail",
	}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeHTTPStatus, trErr.Code)
	require.True(t, utf8.ValidString(trErr.Message))
	require.Equal(t, strings.Repeat("a", 199), trErr.Message)
}

func TestTranscribeLogsDiarizationOnce(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	svc := &fakeService{final: completed(wireUtterance{Speaker: "A", Text: "hi"})}
	tr := newLoggedTranscriber(t, svc, 5*time.Second, logger.FromZap(zap.New(core)))

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{Speakers: ExactSpeakers(2)})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("Transcribing with speaker diarization").All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Message, "exactly 2")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"mid rune", "aé", 2, "a"},
		{"rune boundary", "aéb", 3, "aé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestTranscribeTimesOut(t *testing.T) {
	t.Parallel()

	svc := &fakeService{final: wireTranscript{Status: "processing"}}
	tr := newTestTranscriber(t, svc, 50*time.Millisecond)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{APIKey: "k"}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeTimeout, trErr.Code)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranscribeCanceled(t *testing.T) {
	t.Parallel()

	svc := &fakeService{final: wireTranscript{Status: "processing"}}
	tr := newTestTranscriber(t, svc, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := tr.Transcribe(ctx, writeAudio(t), Credentials{APIKey: "k"}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	tr := newTestTranscriber(t, svc, time.Second)

	_, err := tr.Transcribe(context.Background(), writeAudio(t), Credentials{}, Options{})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	require.Equal(t, CodeInvalidInput, trErr.Code)
	require.Zero(t, svc.uploads)
}

func TestTranscribeMissingFile(t *testing.T) {
	t.Parallel()

	tr := newTestTranscriber(t, &fakeService{}, time.Second)

	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), Credentials{APIKey: "k"}, Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCountWords(t *testing.T) {
	require.Equal(t, 0, CountWords(nil))
	require.Equal(t, 5, CountWords([]Utterance{{Text: "one two"}, {Text: "  three\tfour five "}}))
}
