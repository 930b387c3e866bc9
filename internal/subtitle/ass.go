package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// the Events section column layout we read and write
var assFormatColumns = []string{
	"Layer", "Start", "End", "Style", "Name",
	"MarginL", "MarginR", "MarginV", "Effect", "Text",
}

func parseASSFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	doc := NewDocument()
	doc.format = FormatASS

	scanner := bufio.NewScanner(file)
	inEvents := false
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			inEvents = section == "events"
			if !inEvents {
				doc.header = append(doc.header, line)
			}
			continue
		}

		if !inEvents {
			doc.header = append(doc.header, line)
			continue
		}

		isDialogue := strings.HasPrefix(trimmed, "Dialogue:")
		isComment := strings.HasPrefix(trimmed, "Comment:")
		if !isDialogue && !isComment {
			// the Format: line is regenerated on write; anything else in
			// Events is dropped
			continue
		}

		ev, err := parseEventLine(trimmed, isComment)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event at line %d: %w", lineNum, err)
		}
		doc.Events = append(doc.Events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ASS file: %w", err)
	}

	doc.SetEvents(doc.Events)
	return doc, nil
}

func parseEventLine(line string, comment bool) (*Line, error) {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return nil, fmt.Errorf("missing event prefix")
	}

	fields := strings.SplitN(rest, ",", len(assFormatColumns))
	if len(fields) != len(assFormatColumns) {
		return nil, fmt.Errorf("expected %d fields, got %d",
			len(assFormatColumns), len(fields))
	}

	layer, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid layer %q", fields[0])
	}
	start, err := ParseTime(fields[1])
	if err != nil {
		return nil, err
	}
	end, err := ParseTime(fields[2])
	if err != nil {
		return nil, err
	}

	return &Line{
		Layer:   layer,
		Start:   start,
		End:     end,
		Style:   strings.TrimSpace(fields[3]),
		Actor:   strings.TrimSpace(fields[4]),
		Effect:  strings.TrimSpace(fields[8]),
		Text:    fields[9],
		Comment: comment,
	}, nil
}

// WriteASS serialises the document to an ASS file, preserving the header
// sections read at open time.
func (d *Document) WriteASS(path string) error {
	var sb strings.Builder

	if len(d.header) == 0 {
		sb.WriteString("[Script Info]\n")
		sb.WriteString("Title: subtide\n")
		sb.WriteString("ScriptType: v4.00+\n")
		sb.WriteString("\n")
	} else {
		for _, line := range d.header {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: ")
	sb.WriteString(strings.Join(assFormatColumns, ", "))
	sb.WriteString("\n")

	for _, ev := range d.Events {
		prefix := "Dialogue"
		if ev.Comment {
			prefix = "Comment"
		}
		style := ev.Style
		if style == "" {
			style = "Default"
		}
		sb.WriteString(fmt.Sprintf("%s: %d,%s,%s,%s,%s,0,0,0,%s,%s\n",
			prefix, ev.Layer, FormatTime(ev.Start), FormatTime(ev.End),
			style, ev.Actor, ev.Effect, ev.Text))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}
