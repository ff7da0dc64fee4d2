package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Call is one recorded command invocation.
type Call struct {
	Name string
	Args []string
}

// FakeExecutor answers ffprobe with an audio stream and "encodes" by writing
// EncodeBytes to the last ffmpeg argument.
type FakeExecutor struct {
	mu    sync.Mutex
	calls []Call

	// EncodeBytes is written as the encoded audio. Defaults to "fake-audio".
	EncodeBytes []byte
	// EncodeErr fails ffmpeg for videos whose base name is a key.
	EncodeErr map[string]error
	// NoAudio makes ffprobe report no audio stream for these base names.
	NoAudio map[string]bool
	// PartialWrite makes a failing encode leave bytes in its output file first.
	PartialWrite bool
}

func (f *FakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.Contains(filepath.Base(name), "ffprobe") {
		video := filepath.Base(args[len(args)-1])
		if f.NoAudio[video] {
			return "", nil
		}
		return "1\n", nil
	}

	video := filepath.Base(argAfter(args, "-i"))
	output := args[len(args)-1]

	if err, ok := f.EncodeErr[video]; ok {
		if f.PartialWrite {
			_ = os.WriteFile(output, []byte("trunc"), 0o644)
		}
		return "", err
	}

	data := f.EncodeBytes
	if data == nil {
		data = []byte("fake-audio")
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return "", err
	}
	return "", nil
}

// Calls returns a copy of every recorded invocation.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo counts invocations whose binary base name contains name.
func (f *FakeExecutor) CallsTo(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.Contains(filepath.Base(c.Name), name) {
			n++
		}
	}
	return n
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
