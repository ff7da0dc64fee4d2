package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/diarize-flow/internal/transcriber"
)

var errEmptyTranscript = errors.New("refusing to write a transcript without utterances")

// FormatTranscript renders one "Speaker <label>: <text>" line per utterance, in order.
func FormatTranscript(utterances []transcriber.Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		fmt.Fprintf(&b, "Speaker %s: %s\n", u.Speaker, u.Text)
	}
	return b.String()
}

// WriteTranscript replaces path with the formatted utterances via a temp file and rename.
func WriteTranscript(path string, utterances []transcriber.Utterance) error {
	if len(utterances) == 0 {
		return errEmptyTranscript
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp transcript: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(FormatTranscript(utterances)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close transcript: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod transcript: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("move transcript into place: %w", err)
	}
	return nil
}
