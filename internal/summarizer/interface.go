package summarizer

import "context"

// Summarizer reads diarized transcripts and produces LLM-generated summaries.
type Summarizer interface {
	// SummarizeAll writes a markdown and a docx summary into destDir for every
	// transcript in transcriptDir that does not have one yet.
	SummarizeAll(ctx context.Context, transcriptDir, destDir string) (*Report, error)
}

// Report counts the outcome of one SummarizeAll call.
type Report struct {
	Summarized int
	Skipped    int
	Failed     int
}
