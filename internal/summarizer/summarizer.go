package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"
)

const transcriptSuffix = "_transcript.txt"

// ErrNoAPIKeys is returned when no Gemini key is configured.
var ErrNoAPIKeys = errors.New("no Gemini API key configured (set GEMINI_API_KEY or GEMINI_API_KEYS)")

const summaryPrompt = `You are analysing a recorded conversation. The transcript below was produced with speaker diarization: each line starts with "Speaker <label>:".

Write a DETAILED summary in markdown:
- Start with a one-sentence heading describing the topic of the conversation
- List the participants by speaker label with a short note on the role each one plays
- Walk through ALL main points in the order they come up, attributing statements to speakers
- Keep technical terms as spoken
- Finish with a "Decisions and action items" section if any were mentioned

Transcript:
---
%s
---`

// SummarizeAll reads all transcripts from transcriptDir, calls Gemini for each,
// and writes <stem>.md and <stem>.docx files into destDir.
func (s *implSummarizer) SummarizeAll(ctx context.Context, transcriptDir, destDir string) (*Report, error) {
	if len(s.apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	transcripts, err := s.discoverTranscripts(transcriptDir)
	if err != nil {
		return nil, fmt.Errorf("discover transcripts: %w", err)
	}

	report := &Report{}
	if len(transcripts) == 0 {
		s.logger.Info(ctx, "No transcripts found in %s", transcriptDir)
		return report, nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d transcripts", len(transcripts))

	for i, path := range transcripts {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := strings.TrimSuffix(filepath.Base(path), transcriptSuffix)
		mdPath := filepath.Join(destDir, name+".md")

		if _, err := os.Stat(mdPath); err == nil {
			s.logger.Debug(ctx, "[%d/%d] Summary exists, skipping: %s", i+1, len(transcripts), name)
			report.Skipped++
			continue
		}

		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(transcripts), name)

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error(ctx, "Failed to read %s: %v", path, err)
			report.Failed++
			continue
		}

		summary, err := s.callGemini(ctx, string(content))
		if err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", name, err)
			report.Failed++
			continue
		}
		summary = strings.TrimSpace(summary)

		md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n", name, s.now(), summary)

		docxPath := filepath.Join(destDir, name+".docx")
		if err := markdownToDocx(name, summary, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to write %s: %v", docxPath, err)
		}
		if err := transcriptToDocx(name, string(content), filepath.Join(destDir, name+"_transcript.docx")); err != nil {
			s.logger.Warn(ctx, "Failed to write transcript docx for %s: %v", name, err)
		}

		// The markdown file is the completion marker, so it is written last.
		if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
			s.logger.Error(ctx, "Failed to write %s: %v", mdPath, err)
			report.Failed++
			continue
		}

		s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
		report.Summarized++
	}

	s.logger.Info(ctx, "Summary complete: %d summarized, %d skipped, %d failed", report.Summarized, report.Skipped, report.Failed)
	return report, nil
}

// callGemini sends the transcript to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, transcript)

	var lastErr error
	for range len(s.apiKeys) {
		key := s.apiKeys[s.currentKey]

		text, err := s.generate(ctx, key, s.model, prompt)
		if err == nil {
			return text, nil
		}
		if !isQuotaError(err) {
			return "", err
		}

		s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
		s.rotateKey()
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func geminiGenerate(ctx context.Context, key, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

func (s *implSummarizer) discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.HasSuffix(e.Name(), transcriptSuffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04")
}
