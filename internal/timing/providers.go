package timing

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nmkale/subtide/internal/event"
	"github.com/nmkale/subtide/internal/options"
)

// MarkerProvider supplies render markers for a time range.
type MarkerProvider interface {
	GetMarkers(r TimeRange, out *[]AudioMarker)
	AddMarkerMovedListener(fn func(struct{})) *event.Connection[struct{}]
}

// a marker at a fixed position with a shared style
type staticMarker struct {
	position int
	style    *Pen
}

func (m staticMarker) Position() int   { return m.position }
func (m staticMarker) Style() *Pen     { return m.style }
func (m staticMarker) Feet() FeetStyle { return FeetNone }

// KeyframeProvider exposes video keyframe times as snap targets and render
// markers, gated by a display option.
type KeyframeProvider struct {
	times   []int // sorted ms
	style   Pen
	enabled *options.Value
	moved   event.Signal[struct{}]
}

func NewKeyframeProvider(opts *options.Store) *KeyframeProvider {
	p := &KeyframeProvider{
		style:   Pen{Color: opts.Get("Colour/Audio Display/Keyframe").GetColor(), Width: 1},
		enabled: opts.Get("Audio/Display/Draw/Keyframes"),
	}
	p.enabled.Subscribe(func(*options.Value) { p.moved.Emit(struct{}{}) })
	return p
}

// SetKeyframes replaces the keyframe list with the given times.
func (p *KeyframeProvider) SetKeyframes(times []int) {
	p.times = append([]int(nil), times...)
	sort.Ints(p.times)
	p.moved.Emit(struct{}{})
}

func (p *KeyframeProvider) GetMarkers(r TimeRange, out *[]AudioMarker) {
	if !p.enabled.GetBool() {
		return
	}
	begin := sort.SearchInts(p.times, r.Begin())
	for i := begin; i < len(p.times) && p.times[i] < r.End(); i++ {
		*out = append(*out, staticMarker{position: p.times[i], style: &p.style})
	}
}

func (p *KeyframeProvider) AddMarkerMovedListener(fn func(struct{})) *event.Connection[struct{}] {
	return p.moved.Subscribe(fn)
}

// LoadKeyframes reads a keyframe file with one millisecond time per line.
// Blank lines and lines starting with '#' are skipped.
func LoadKeyframes(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyframes file: %w", err)
	}
	defer file.Close()

	var times []int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("invalid keyframe time %q: %w", line, err)
		}
		times = append(times, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyframes file: %w", err)
	}
	return times, nil
}

// VideoPositionProvider exposes the current video seek position as a snap
// target and render marker.
type VideoPositionProvider struct {
	position int // ms, -1 when no video
	style    Pen
	moved    event.Signal[struct{}]
}

func NewVideoPositionProvider(opts *options.Store) *VideoPositionProvider {
	return &VideoPositionProvider{
		position: -1,
		style:    Pen{Color: opts.Get("Colour/Audio Display/Play Cursor").GetColor(), Width: 1},
	}
}

// Position returns the current video position in milliseconds, -1 if unset.
func (p *VideoPositionProvider) Position() int { return p.position }

// SetPosition updates the tracked video position.
func (p *VideoPositionProvider) SetPosition(ms int) {
	if p.position == ms {
		return
	}
	p.position = ms
	p.moved.Emit(struct{}{})
}

func (p *VideoPositionProvider) GetMarkers(r TimeRange, out *[]AudioMarker) {
	if p.position >= 0 && r.Contains(p.position) {
		*out = append(*out, staticMarker{position: p.position, style: &p.style})
	}
}

func (p *VideoPositionProvider) AddMarkerMovedListener(fn func(struct{})) *event.Connection[struct{}] {
	return p.moved.Subscribe(fn)
}
