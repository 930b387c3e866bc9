package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// paths to the ffmpeg tools we shell out to
type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	resolveOnce sync.Once
	resolveErr  error
	resolved    BinaryPaths
)

// Resolve locates ffmpeg and ffprobe, honouring SUBTIDE_FFMPEG and
// SUBTIDE_FFPROBE overrides before falling back to PATH lookup.
func Resolve() (BinaryPaths, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = resolve()
	})
	return resolved, resolveErr
}

func FFmpegPath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve() (BinaryPaths, error) {
	var paths BinaryPaths
	var err error

	if override := os.Getenv("SUBTIDE_FFMPEG"); override != "" {
		paths.FFmpeg = override
	} else if paths.FFmpeg, err = exec.LookPath("ffmpeg"); err != nil {
		return paths, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	if override := os.Getenv("SUBTIDE_FFPROBE"); override != "" {
		paths.FFprobe = override
	} else if paths.FFprobe, err = exec.LookPath("ffprobe"); err != nil {
		return paths, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return paths, nil
}
