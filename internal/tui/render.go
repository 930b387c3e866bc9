package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nmkale/subtide/internal/colors"
	"github.com/nmkale/subtide/internal/subtitle"
	"github.com/nmkale/subtide/internal/timing"
	"github.com/nmkale/subtide/internal/wave"
)

var (
	statusStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	timelineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	activeLineBG   = "22"  // dark green
	selectedLineBG = "236" // gray
	waveFG         = "110"
)

// one display cell of the audio area
type cell struct {
	ch rune
	fg string
	bg string
}

func (m *Model) View() string {
	if m.width == 0 || m.height < 4 {
		return ""
	}

	m.display.TakeRepaint()

	var sb strings.Builder
	sb.WriteString(m.renderTimeline())
	sb.WriteString("\n")
	sb.WriteString(m.renderAudio())
	sb.WriteString(m.renderStatus())
	return sb.String()
}

func (m *Model) renderTimeline() string {
	row := make([]rune, m.width)
	for i := range row {
		row[i] = ' '
	}

	lastTextRight := -1
	for _, tick := range m.display.Timeline().Ticks() {
		if tick.X < 0 || tick.X >= m.width {
			continue
		}
		if tick.Major {
			row[tick.X] = '╿'
		} else if row[tick.X] == ' ' {
			row[tick.X] = '╵'
		}
		if tick.Label != "" && tick.X+1 > lastTextRight {
			end := tick.X + 1 + len(tick.Label)
			if end < m.width {
				copy(row[tick.X+1:], []rune(tick.Label))
				lastTextRight = end + 1
			}
		}
	}

	return timelineStyle.Render(string(row))
}

func (m *Model) renderAudio() string {
	rows := m.height - 3
	if rows < 1 {
		rows = 1
	}
	w := m.width

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, w)
		for x := range grid[r] {
			grid[r][x] = cell{ch: ' '}
		}
	}

	mapping := m.display.Mapping()
	startTime := mapping.TimeFromRelativeX(0)
	endTime := mapping.TimeFromRelativeX(w)

	// subtitle line ranges tint the background
	for _, line := range m.doc.Events {
		if line.Start > endTime || line.End < startTime {
			continue
		}
		bg := ""
		switch {
		case line == m.sel.ActiveLine():
			bg = activeLineBG
		case m.sel.IsSelected(line):
			bg = selectedLineBG
		default:
			continue
		}
		x1 := max(mapping.RelativeXFromTime(line.Start), 0)
		x2 := min(mapping.RelativeXFromTime(line.End), w-1)
		for x := x1; x <= x2; x++ {
			for r := range grid {
				grid[r][x].bg = bg
			}
		}
	}

	m.renderWaveform(grid)

	// markers paint over the waveform, later ones on top
	var markers []timing.AudioMarker
	m.controller.GetMarkers(timing.NewTimeRange(startTime, endTime+1), &markers)
	for _, marker := range markers {
		x := mapping.RelativeXFromTime(marker.Position())
		if x < 0 || x >= w {
			continue
		}
		fg := marker.Style().Color.String()
		for r := range grid {
			grid[r][x].ch = '│'
			grid[r][x].fg = fg
		}
		switch marker.Feet() {
		case timing.FeetLeft:
			m.renderFoot(grid, x-1, fg, '◀')
		case timing.FeetRight:
			m.renderFoot(grid, x+1, fg, '▶')
		case timing.FeetBoth:
			m.renderFoot(grid, x-1, fg, '◀')
			m.renderFoot(grid, x+1, fg, '▶')
		}
	}

	// video position
	if pos := m.videoPos.Position(); pos >= 0 {
		if x := mapping.RelativeXFromTime(pos); x >= 0 && x < w {
			for r := range grid {
				if grid[r][x].ch == ' ' {
					grid[r][x].ch = '┊'
					grid[r][x].fg = "255"
				}
			}
		}
	}

	// track cursor on top of everything
	if pos := m.display.TrackCursorPos(); pos >= 0 {
		if x := pos - m.display.ScrollLeft(); x >= 0 && x < w {
			for r := range grid {
				grid[r][x].ch = '┃'
				grid[r][x].fg = "255"
			}
			if label := m.display.TrackCursorLabel(); label != "" {
				lx := min(max(x-len(label)/2, 0), w-len(label)-1)
				for i, ch := range label {
					if lx+i < w {
						grid[0][lx+i] = cell{ch: ch, fg: "255"}
					}
				}
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(renderRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderFoot(grid [][]cell, x int, fg string, ch rune) {
	if x < 0 || x >= len(grid[0]) {
		return
	}
	grid[0][x].ch = ch
	grid[0][x].fg = fg
	grid[len(grid)-1][x].ch = ch
	grid[len(grid)-1][x].fg = fg
}

// renderWaveform fills the grid with the audio, either as a centered peak
// waveform or as an intensity column per the renderer option.
func (m *Model) renderWaveform(grid [][]cell) {
	if m.provider == nil {
		return
	}

	rows := len(grid)
	w := len(grid[0])
	rate := int64(m.provider.SampleRate())
	mapping := m.display.Mapping()
	mid := rows / 2
	spectrum := m.opts.Get("Audio/Spectrum").GetBool()

	buf := make([]int16, 4096)
	for x := 0; x < w; x++ {
		t0 := int64(mapping.TimeFromRelativeX(x))
		t1 := int64(mapping.TimeFromRelativeX(x + 1))
		s0 := t0 * rate / 1000
		s1 := t1 * rate / 1000
		if s1 <= s0 {
			s1 = s0 + 1
		}

		count := s1 - s0
		if count > int64(len(buf)) {
			count = int64(len(buf))
		}
		n := m.provider.FillSamples(s0, buf[:count])
		if n == 0 {
			continue
		}

		peak := 0
		for _, s := range buf[:n] {
			v := int(s)
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}

		if spectrum {
			// inverted shade ramp: louder columns are darker
			fg := colors.Shade(float64(peak) / 32768).String()
			for r := 0; r < rows; r++ {
				grid[r][x].ch = '▒'
				grid[r][x].fg = fg
			}
			continue
		}

		half := peak * mid / 32768
		for r := mid - half; r <= mid+half && r < rows; r++ {
			if r < 0 {
				continue
			}
			grid[r][x].ch = '█'
			grid[r][x].fg = waveFG
		}
	}
}

// renderRow converts cells to styled text, batching runs with identical
// styling to keep escape sequences down.
func renderRow(row []cell) string {
	var sb strings.Builder
	var run strings.Builder
	curFG, curBG := "", ""

	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle()
		if curFG != "" {
			style = style.Foreground(lipgloss.Color(curFG))
		}
		if curBG != "" {
			style = style.Background(lipgloss.Color(curBG))
		}
		sb.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for _, c := range row {
		if c.fg != curFG || c.bg != curBG {
			flush()
			curFG, curBG = c.fg, c.bg
		}
		run.WriteRune(c.ch)
	}
	flush()
	return sb.String()
}

func (m *Model) renderStatus() string {
	active := m.sel.ActiveLine()
	left := "no active line"
	if active != nil {
		idx := m.doc.IndexOf(active)
		text := active.Text
		if len(text) > 40 {
			text = text[:40] + "…"
		}
		left = fmt.Sprintf("#%d  %s → %s  %s",
			idx+1,
			subtitle.FormatTime(active.Start),
			subtitle.FormatTime(active.End),
			text)
	}

	snap := "snap off"
	if m.opts.Get("Audio/Snap/Enable").GetBool() {
		snap = "snap on"
	}
	cursor := ""
	if m.display.Cursor() == wave.CursorSizeWE {
		cursor = " ↔"
	}
	dirty := ""
	if m.doc.CanUndo() {
		dirty = fmt.Sprintf("  undo: %s", m.doc.UndoDescription())
	}

	line2 := fmt.Sprintf("%s  %d%%  %s%s%s  %s",
		m.path,
		m.zoomPercent(),
		snap, cursor, dirty, m.status)

	pad := func(s string) string {
		if len(s) < m.width {
			return s + strings.Repeat(" ", m.width-len(s))
		}
		return s[:m.width]
	}

	return statusStyle.Render(pad(left)) + "\n" + statusStyle.Render(pad(line2))
}

func (m *Model) zoomPercent() int {
	return wave.ZoomFactor(m.display.ZoomLevel())
}
