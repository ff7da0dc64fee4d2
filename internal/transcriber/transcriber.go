package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/samber/lo"
)

// maxMessage bounds service error text carried by TranscriptionError.
const maxMessage = 200

// Transcribe uploads local audio when needed, submits a diarized transcription
// request and polls until the service reports completed or error. The whole call,
// including the upload, is bounded by the configured timeout.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string, creds Credentials, opts Options) (*Result, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, &TranscriptionError{Code: CodeInvalidInput, Message: "API key is required", AudioPath: audioPath}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	client := t.client(creds)
	startTime := time.Now()

	audioURL := audioPath
	if !isRemote(audioPath) {
		t.logger.Debug(ctx, "Uploading audio: %s", audioPath)
		uploaded, err := t.upload(ctx, client, audioPath)
		if err != nil {
			return nil, err
		}
		audioURL = uploaded
	}

	t.logger.Info(ctx, "Transcribing with speaker diarization (speakers: %s)...", opts.Speakers)

	submitted, err := client.Transcripts.SubmitFromURL(ctx, audioURL, buildParams(opts))
	if err != nil {
		return nil, callError(ctx, err, "submit transcription", audioPath)
	}
	if aai.ToString(submitted.ID) == "" {
		return nil, &TranscriptionError{Code: CodeInvalidResponse, Message: "service returned no transcript id", AudioPath: audioPath}
	}

	final, err := t.await(ctx, client, submitted, audioPath)
	if err != nil {
		return nil, err
	}

	if len(final.Utterances) == 0 {
		return nil, &TranscriptionError{
			Code:      CodeNoUtterances,
			Message:   fmt.Sprintf("transcription completed but returned no utterances. Status: %s", final.Status),
			AudioPath: audioPath,
		}
	}

	result := &Result{
		ID:            aai.ToString(final.ID),
		AudioDuration: seconds(final.AudioDuration),
		Utterances: lo.Map(final.Utterances, func(u aai.TranscriptUtterance, _ int) Utterance {
			return Utterance{
				Speaker:    aai.ToString(u.Speaker),
				Text:       aai.ToString(u.Text),
				Start:      aai.ToInt64(u.Start),
				End:        aai.ToInt64(u.End),
				Confidence: aai.ToFloat64(u.Confidence),
			}
		}),
	}
	result.Words = CountWords(result.Utterances)

	t.logger.Info(ctx, "Transcription completed successfully in %s", time.Since(startTime).Round(time.Millisecond))
	t.logger.Info(ctx, "Audio duration: %.0fs (%.1f min)", result.AudioDuration.Seconds(), result.AudioDuration.Minutes())
	t.logger.Info(ctx, "Utterances: %d", len(result.Utterances))
	t.logger.Info(ctx, "Total words: %d", result.Words)

	return result, nil
}

// CountWords sums whitespace-separated words across utterances.
func CountWords(utterances []Utterance) int {
	return lo.SumBy(utterances, func(u Utterance) int {
		return len(strings.Fields(u.Text))
	})
}

// await polls the transcript until it reaches a terminal status.
func (t *implTranscriber) await(ctx context.Context, client *aai.Client, current aai.Transcript, audioPath string) (aai.Transcript, error) {
	id := aai.ToString(current.ID)
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		switch current.Status {
		case aai.TranscriptStatusCompleted:
			return current, nil
		case aai.TranscriptStatusError:
			return current, &TranscriptionError{
				Code:      CodeRemote,
				Message:   fmt.Sprintf("transcription failed: %s", truncate(aai.ToString(current.Error), maxMessage)),
				AudioPath: audioPath,
			}
		}

		t.logger.Debug(ctx, "Transcript %s status: %s", id, current.Status)

		select {
		case <-ctx.Done():
			return current, contextError(ctx, audioPath)
		case <-ticker.C:
		}

		next, err := client.Transcripts.Get(ctx, id)
		if err != nil {
			return current, callError(ctx, err, "poll transcription", audioPath)
		}
		current = next
	}
}

func (t *implTranscriber) upload(ctx context.Context, client *aai.Client, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", &TranscriptionError{Code: CodeInvalidInput, Message: "open audio file", AudioPath: audioPath, Err: err}
	}
	defer f.Close()

	uploadURL, err := client.Upload(ctx, f)
	if err != nil {
		return "", callError(ctx, err, "upload audio", audioPath)
	}
	if uploadURL == "" {
		return "", &TranscriptionError{Code: CodeInvalidResponse, Message: "upload returned no url", AudioPath: audioPath}
	}
	return uploadURL, nil
}

func buildParams(opts Options) *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{SpeakerLabels: aai.Bool(true)}
	if n, ok := opts.Speakers.Exact(); ok {
		params.SpeakersExpected = aai.Int64(int64(n))
	} else if low, high, ok := opts.Speakers.Range(); ok {
		speakers := &aai.SpeakerOptions{}
		if low > 0 {
			speakers.MinSpeakersExpected = aai.Int64(int64(low))
		}
		if high > 0 {
			speakers.MaxSpeakersExpected = aai.Int64(int64(high))
		}
		params.SpeakerOptions = speakers
	}
	return params
}

// callError maps an SDK failure to a TranscriptionError.
func callError(ctx context.Context, err error, op, audioPath string) error {
	if ctx.Err() != nil {
		return contextError(ctx, audioPath)
	}

	if status, message, ok := apiError(err); ok {
		code := CodeHTTPStatus
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			code = CodeAuth
		}
		if message == "" {
			message = http.StatusText(status)
		}
		return &TranscriptionError{Code: code, Message: truncate(message, maxMessage), AudioPath: audioPath, StatusCode: status}
	}

	return &TranscriptionError{Code: CodeNetwork, Message: op, AudioPath: audioPath, Err: err}
}

func apiError(err error) (int, string, bool) {
	var byValue aai.APIError
	if errors.As(err, &byValue) {
		return byValue.Status, strings.TrimSpace(byValue.Message), true
	}
	var byRef *aai.APIError
	if errors.As(err, &byRef) {
		return byRef.Status, strings.TrimSpace(byRef.Message), true
	}
	return 0, "", false
}

func contextError(ctx context.Context, audioPath string) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return &TranscriptionError{Code: CodeTimeout, Message: "gave up waiting for transcription", AudioPath: audioPath, Err: err}
	}
	return &TranscriptionError{Code: CodeCanceled, Message: "transcription canceled", AudioPath: audioPath, Err: err}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func seconds[N int64 | float64](v *N) time.Duration {
	if v == nil {
		return 0
	}
	return time.Duration(float64(*v) * float64(time.Second))
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
