package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var srtTimestampRegex = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
)

func parseSRTFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	doc := NewDocument()
	doc.format = FormatSRT

	scanner := bufio.NewScanner(file)

	var current *Line
	var textLines []string
	lineNum := 0

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\\N")
			doc.Events = append(doc.Events, current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				// cue index; we renumber on write
				current = &Line{}
				continue
			}
		}

		if m := srtTimestampRegex.FindStringSubmatch(line); m != nil {
			if current == nil {
				current = &Line{}
			}
			current.Start = srtTimeToMS(m[1], m[2], m[3], m[4])
			current.End = srtTimeToMS(m[5], m[6], m[7], m[8])
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read SRT file: %w", err)
	}

	doc.SetEvents(doc.Events)
	return doc, nil
}

func srtTimeToMS(h, m, s, ms string) int {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(s)
	msi, _ := strconv.Atoi(ms)
	return ((hi*60+mi)*60+si)*1000 + msi
}

// WriteSRT serialises the document as SubRip, renumbering cues and
// dropping comment lines.
func (d *Document) WriteSRT(path string) error {
	var sb strings.Builder
	index := 0
	for _, ev := range d.Events {
		if ev.Comment {
			continue
		}
		index++
		sb.WriteString(fmt.Sprintf("%d\n", index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(ev.Start), formatSRTTime(ev.End)))
		sb.WriteString(strings.ReplaceAll(ev.Text, "\\N", "\n"))
		sb.WriteString("\n\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
