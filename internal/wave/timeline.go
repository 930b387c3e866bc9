package wave

import "fmt"

// Tick is one timeline scale mark.
type Tick struct {
	X     int // relative pixel
	Major bool
	// Label is set on major ticks; hour and minute components are elided
	// while they repeat.
	Label string
}

// Timeline generates the scale marks above the audio view.
type Timeline struct {
	width      int
	pixelLeft  int
	msPerPixel float64
	durationMS int
	tier       ScaleTier
}

func NewTimeline() *Timeline {
	return &Timeline{msPerPixel: 1, tier: TierFor(1)}
}

func (t *Timeline) SetWidth(width int) { t.width = width }

// ChangeAudio sets the audio duration, which controls whether hour
// components appear in labels.
func (t *Timeline) ChangeAudio(durationMS int) { t.durationMS = durationMS }

// ChangeZoom re-picks the scale tier for a new pixel density.
func (t *Timeline) ChangeZoom(msPerPixel float64) {
	t.msPerPixel = msPerPixel
	t.tier = TierFor(msPerPixel)
}

// SetPosition moves the timeline to a new scroll offset.
func (t *Timeline) SetPosition(pixelLeft int) {
	if pixelLeft < 0 {
		pixelLeft = 0
	}
	t.pixelLeft = pixelLeft
}

func (t *Timeline) Tier() ScaleTier { return t.tier }

// Ticks emits the scale marks across the visible width, first to last.
func (t *Timeline) Ticks() []Tick {
	if t.width <= 0 {
		return nil
	}

	var ticks []Tick

	msLeft := float64(t.pixelLeft) * t.msPerPixel
	next := int(msLeft / t.tier.DivisorMS)
	if float64(next)*t.tier.DivisorMS < msLeft {
		next++
	}

	lastHour, lastMinute := -1, -1
	if t.durationMS < 3600000 {
		// only show hours for audio longer than one
		lastHour = 0
	}

	for {
		x := int(float64(next)*t.tier.DivisorMS/t.msPerPixel) - t.pixelLeft
		if x >= t.width {
			break
		}

		tick := Tick{X: x, Major: next%t.tier.MajorModulo == 0}
		if tick.Major {
			tick.Label, lastHour, lastMinute = t.label(next, lastHour, lastMinute)
		}
		ticks = append(ticks, tick)

		next++
	}

	return ticks
}

func (t *Timeline) label(index, lastHour, lastMinute int) (string, int, int) {
	markTime := float64(index) * t.tier.DivisorMS / 1000.0
	hour := int(markTime / 3600)
	minute := int(markTime/60) % 60
	second := markTime - float64(hour)*3600 - float64(minute)*60

	label := ""
	if hour != lastHour {
		label = fmt.Sprintf("%d:%02d:", hour, minute)
		lastHour = hour
		lastMinute = minute
	} else if minute != lastMinute {
		label = fmt.Sprintf("%d:", minute)
		lastMinute = minute
	}

	switch {
	case t.tier.Unit >= ScaleDecisecond:
		label += fmt.Sprintf("%02d", int(second))
	case t.tier.Unit == ScaleCentisecond:
		label += fmt.Sprintf("%04.1f", second)
	default:
		label += fmt.Sprintf("%05.2f", second)
	}

	return label, lastHour, lastMinute
}
