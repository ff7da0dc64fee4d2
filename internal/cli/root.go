package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nguyentantai21042004/diarize-flow/internal/config"
	"github.com/nguyentantai21042004/diarize-flow/internal/extractor"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
	"github.com/nguyentantai21042004/diarize-flow/internal/processor"
	"github.com/nguyentantai21042004/diarize-flow/internal/transcriber"
	"github.com/nguyentantai21042004/diarize-flow/pkg/executor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultConfigPath = "config.yaml"

type appState struct {
	configPath string
	envFile    string
	inputDir   string
	outputDir  string
	verbose    bool
	jsonLogs   bool
	noProgress bool

	cfg    *config.Config
	logger logger.Logger

	extractorFn   func(cfg *config.Config, log logger.Logger) extractor.Extractor
	transcriberFn func(cfg *config.Config, log logger.Logger) transcriber.Transcriber
}

// NewRootCmd builds the diarize-flow command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&appState{})
}

func newRootCmd(app *appState) *cobra.Command {
	if app.extractorFn == nil {
		app.extractorFn = defaultExtractor
	}
	if app.transcriberFn == nil {
		app.transcriberFn = defaultTranscriber
	}

	cmd := &cobra.Command{
		Use:           "diarize-flow",
		Short:         "Extract audio from videos and write speaker-labelled transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runBatch(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", defaultConfigPath, "Path to the YAML config file (optional)")
	flags.StringVar(&app.envFile, "env-file", "", "Env file holding "+config.APIKeyEnv+" (default .env, .env.local)")
	flags.StringVar(&app.inputDir, "input", "", "Video directory (overrides paths.input)")
	flags.StringVar(&app.outputDir, "output", "", "Output directory (overrides paths.output)")
	flags.BoolVar(&app.verbose, "verbose", false, "Enable debug logs")
	flags.BoolVar(&app.jsonLogs, "json", false, "Enable JSON logging")
	flags.BoolVar(&app.noProgress, "no-progress", false, "Disable the transcription spinner")

	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newSummarizeCmd(app))

	return cmd
}

// setup loads the env file, the config and the logger. It never touches the
// input or output directories.
func (a *appState) setup(cmd *cobra.Command) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = []string{a.envFile}
	}
	if _, err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOrDefault(a.configPath)
	}
	if err != nil {
		return err
	}

	if a.inputDir != "" {
		cfg.Paths.Input = a.inputDir
	}
	if a.outputDir != "" {
		cfg.Paths.Output = a.outputDir
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if a.jsonLogs {
		cfg.Logging.Format = "json"
	}

	log, err := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = log
	return nil
}

// newProcessor resolves the credential first so a missing key fails before any
// directory is scanned or created.
func (a *appState) newProcessor() (processor.Processor, error) {
	apiKey, err := config.APIKey()
	if err != nil {
		return nil, fmt.Errorf("%w (set it in the environment or an .env file)", err)
	}

	deps := processor.Deps{
		Extractor:   a.extractorFn(a.cfg, a.logger),
		Transcriber: a.transcriberFn(a.cfg, a.logger),
		Credentials: transcriber.Credentials{APIKey: apiKey},
		Logger:      a.logger,
	}
	if a.progressEnabled() {
		deps.Progress = startSpinner
	}

	return processor.New(a.cfg, deps), nil
}

func (a *appState) runBatch(ctx context.Context) error {
	proc, err := a.newProcessor()
	if err != nil {
		return err
	}

	a.logBanner(ctx)

	summary, err := proc.Run(ctx)
	if err != nil {
		return err
	}

	for _, f := range summary.Failures {
		a.logger.Warn(ctx, "Not transcribed: %s (%s)", filepath.Base(f.Video), f.State)
	}
	return nil
}

func (a *appState) logBanner(ctx context.Context) {
	a.logger.Info(ctx, "========================================")
	a.logger.Info(ctx, "Diarize Flow")
	a.logger.Info(ctx, "========================================")
	a.logger.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.logger.Info(ctx, "Input: %s", a.cfg.Paths.Input)
	a.logger.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.logger.Info(ctx, "Audio format: %s", a.cfg.Audio.Format)
	a.logger.Info(ctx, "Max Concurrent Processing: %d", a.cfg.Performance.MaxConcurrent)
}

// progressEnabled shows the spinner only for sequential runs on a terminal.
func (a *appState) progressEnabled() bool {
	if a.noProgress || a.cfg.Logging.Format == "json" || a.cfg.Performance.MaxConcurrent > 1 {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func defaultExtractor(cfg *config.Config, log logger.Logger) extractor.Extractor {
	return extractor.New(executor.New(), log, extractor.Options{
		FFmpegBinary: cfg.FFmpeg.Binary,
		ProbeBinary:  cfg.FFmpeg.ProbeBinary,
	})
}

func defaultTranscriber(cfg *config.Config, log logger.Logger) transcriber.Transcriber {
	return transcriber.New(transcriber.Config{
		BaseURL:      cfg.Transcription.BaseURL,
		Timeout:      cfg.Transcription.Timeout,
		PollInterval: cfg.Transcription.PollInterval,
	}, log)
}
