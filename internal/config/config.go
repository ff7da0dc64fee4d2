package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration values that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// VideoExtensions is the allow-list of input video extensions, compared case-insensitively.
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv", ".webm", ".m4v"}

// AudioFormats lists the audio encodings the extractor can produce.
var AudioFormats = []string{"mp3", "wav", "m4a", "flac", "ogg"}

type Config struct {
	Paths         PathsConfig         `yaml:"paths"`
	Audio         AudioConfig         `yaml:"audio"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Watch         WatchConfig         `yaml:"watch"`
	Gemini        GeminiConfig        `yaml:"gemini"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type AudioConfig struct {
	Format string `yaml:"format"`
}

type FFmpegConfig struct {
	Binary      string `yaml:"binary"`
	ProbeBinary string `yaml:"probe_binary"`
}

type TranscriptionConfig struct {
	BaseURL      string         `yaml:"base_url"`
	Timeout      time.Duration  `yaml:"timeout"`
	PollInterval time.Duration  `yaml:"poll_interval"`
	Speakers     SpeakersConfig `yaml:"speakers"`
}

// SpeakersConfig holds the diarization hints. Expected wins over Min/Max when set.
type SpeakersConfig struct {
	Expected int `yaml:"expected"`
	Min      int `yaml:"min"`
	Max      int `yaml:"max"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type WatchConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the configuration and fills in defaults for empty fields.
func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		c.Paths.Input = "data/videos"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/transcripts"
	}
	if c.Audio.Format == "" {
		c.Audio.Format = "mp3"
	}
	c.Audio.Format = strings.ToLower(strings.TrimPrefix(c.Audio.Format, "."))
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.assemblyai.com"
	}
	if c.Transcription.Timeout == 0 {
		c.Transcription.Timeout = 30 * time.Minute
	}
	if c.Transcription.PollInterval == 0 {
		c.Transcription.PollInterval = 3 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Watch.SettleDelay == 0 {
		c.Watch.SettleDelay = 500 * time.Millisecond
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	if !lo.Contains(AudioFormats, c.Audio.Format) {
		return fmt.Errorf("%w: audio.format %q is not one of %s", ErrInvalidConfig, c.Audio.Format, strings.Join(AudioFormats, ", "))
	}
	if c.Transcription.Timeout < 0 || c.Transcription.PollInterval < 0 {
		return fmt.Errorf("%w: transcription timeout and poll_interval must be positive", ErrInvalidConfig)
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("%w: performance.max_concurrent must be positive", ErrInvalidConfig)
	}

	s := c.Transcription.Speakers
	if s.Expected < 0 || s.Min < 0 || s.Max < 0 {
		return fmt.Errorf("%w: transcription.speakers values must not be negative", ErrInvalidConfig)
	}
	if s.Expected == 0 && s.Min > 0 && s.Max > 0 && s.Min > s.Max {
		return fmt.Errorf("%w: transcription.speakers.min (%d) exceeds max (%d)", ErrInvalidConfig, s.Min, s.Max)
	}

	return nil
}
