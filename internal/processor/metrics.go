package processor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-batch counters on a private registry so they can be
// dumped to a node_exporter textfile once the batch ends.
type Metrics struct {
	registry          *prometheus.Registry
	files             *prometheus.CounterVec
	transcribeSeconds prometheus.Histogram
	utterances        prometheus.Counter
	words             prometheus.Counter
	audioSeconds      prometheus.Counter
}

// NewMetrics registers the pipeline collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diarize_flow",
			Name:      "files_total",
			Help:      "Videos processed, by final state.",
		}, []string{"state"}),
		transcribeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "diarize_flow",
			Name:      "transcription_duration_seconds",
			Help:      "Wall time spent waiting for the transcription service.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
		utterances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diarize_flow",
			Name:      "utterances_total",
			Help:      "Utterances written to transcripts.",
		}),
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diarize_flow",
			Name:      "words_total",
			Help:      "Words written to transcripts.",
		}),
		audioSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diarize_flow",
			Name:      "audio_seconds_total",
			Help:      "Audio duration transcribed, as reported by the service.",
		}),
	}

	m.registry.MustRegister(m.files, m.transcribeSeconds, m.utterances, m.words, m.audioSeconds)
	return m
}

func (m *Metrics) observeTranscribed(elapsed, audio time.Duration, utterances, words int) {
	m.files.WithLabelValues(string(StateTranscriptWritten)).Inc()
	m.transcribeSeconds.Observe(elapsed.Seconds())
	m.utterances.Add(float64(utterances))
	m.words.Add(float64(words))
	m.audioSeconds.Add(audio.Seconds())
}

// observeFailed labels the failure with the state the file was in.
func (m *Metrics) observeFailed(at State) {
	m.files.WithLabelValues("failed_" + string(at)).Inc()
}

// WriteTextfile writes every collector in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
