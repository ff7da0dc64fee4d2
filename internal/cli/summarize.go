package cli

import (
	"context"
	"path/filepath"

	"github.com/nguyentantai21042004/diarize-flow/internal/config"
	"github.com/nguyentantai21042004/diarize-flow/internal/summarizer"
	"github.com/spf13/cobra"
)

func newSummarizeCmd(app *appState) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize written transcripts with Gemini (markdown + docx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runSummarize(cmd.Context(), dest)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Summary directory (default <output>/summaries)")
	return cmd
}

func (a *appState) runSummarize(ctx context.Context, dest string) error {
	if dest == "" {
		dest = filepath.Join(a.cfg.Paths.Output, "summaries")
	}

	s := summarizer.New(config.GeminiKeys(), a.cfg.Gemini.Model, a.logger)
	_, err := s.SummarizeAll(ctx, a.cfg.Paths.Output, dest)
	return err
}
