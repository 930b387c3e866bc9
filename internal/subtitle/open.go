package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open parses a subtitle file, detecting the format from the extension.
func Open(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ass", ".ssa":
		return parseASSFile(path)
	case ".srt":
		return parseSRTFile(path)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}
}

// Write serialises the document back in the format it was opened as.
func (d *Document) Write(path string) error {
	switch d.format {
	case FormatSRT:
		return d.WriteSRT(path)
	default:
		return d.WriteASS(path)
	}
}
