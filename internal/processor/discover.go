package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/diarize-flow/internal/config"
	"github.com/samber/lo"
)

// ErrInputDirNotFound is a configuration error: the video directory is missing.
var ErrInputDirNotFound = errors.New("video directory not found")

// ArtifactPaths are the outputs derived from one video.
type ArtifactPaths struct {
	Audio      string
	Transcript string
}

// DerivePaths maps <dir>/<stem>.<ext> to <outputDir>/<stem>.<audioFormat> and
// <outputDir>/<stem>_transcript.txt.
func DerivePaths(videoPath, outputDir, audioFormat string) ArtifactPaths {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return ArtifactPaths{
		Audio:      filepath.Join(outputDir, stem+"."+strings.TrimPrefix(audioFormat, ".")),
		Transcript: filepath.Join(outputDir, stem+"_transcript.txt"),
	}
}

// IsVideoFile checks the extension against the allow-list, ignoring case.
func IsVideoFile(path string) bool {
	return lo.Contains(config.VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// Discover lists regular video files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputDirNotFound, dir)
		}
		return nil, fmt.Errorf("stat video directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read video directory %s: %w", dir, err)
	}

	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !IsVideoFile(e.Name()) {
			return "", false
		}
		path := filepath.Join(dir, e.Name())
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			return "", false
		}
		return path, true
	})

	sort.Strings(files)
	return files, nil
}
