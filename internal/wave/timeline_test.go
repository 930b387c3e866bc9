package wave

import "testing"

func TestTimelineTicksAtSecondTier(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(200)
	tl.ChangeAudio(120000)
	tl.ChangeZoom(100) // 10 px/sec, second tier
	tl.SetPosition(0)

	ticks := tl.Ticks()
	if len(ticks) == 0 {
		t.Fatal("no ticks generated")
	}

	// one tick per second, every tenth is major
	if ticks[0].X != 0 || !ticks[0].Major {
		t.Errorf("first tick = %+v, want major at 0", ticks[0])
	}
	if len(ticks) != 20 {
		t.Errorf("tick count = %d, want 20", len(ticks))
	}
	for i, tick := range ticks {
		wantMajor := i%10 == 0
		if tick.Major != wantMajor {
			t.Errorf("tick %d major = %v, want %v", i, tick.Major, wantMajor)
		}
		if tick.X != i*10 {
			t.Errorf("tick %d at x=%d, want %d", i, tick.X, i*10)
		}
	}
}

func TestTimelineTicksScrolled(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(100)
	tl.ChangeAudio(120000)
	tl.ChangeZoom(100)
	tl.SetPosition(95) // 9.5 s

	ticks := tl.Ticks()
	if len(ticks) == 0 {
		t.Fatal("no ticks generated")
	}
	// first tick is the 10 s mark at relative x 5
	if ticks[0].X != 5 {
		t.Errorf("first tick at x=%d, want 5", ticks[0].X)
	}
	if !ticks[0].Major {
		t.Errorf("10 s mark should be major")
	}
}

func TestTimelineLabelsElideRepeatedMinutes(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(400)
	tl.ChangeAudio(600000) // 10 min: no hour components
	tl.ChangeZoom(100)
	tl.SetPosition(0)

	var labels []string
	for _, tick := range tl.Ticks() {
		if tick.Label != "" {
			labels = append(labels, tick.Label)
		}
	}
	if len(labels) < 2 {
		t.Fatalf("expected at least 2 labels, got %v", labels)
	}
	// first major shows the minute, later ones in the same minute do not
	if labels[0] != "0:00" {
		t.Errorf("first label = %q, want \"0:00\"", labels[0])
	}
	if labels[1] != "10" {
		t.Errorf("second label = %q, want \"10\"", labels[1])
	}
}

func TestTimelineHourShownForLongAudio(t *testing.T) {
	tl := NewTimeline()
	tl.SetWidth(400)
	tl.ChangeAudio(7200000) // 2 h
	tl.ChangeZoom(100)
	tl.SetPosition(0)

	ticks := tl.Ticks()
	if ticks[0].Label != "0:00:00" {
		t.Errorf("first label = %q, want \"0:00:00\"", ticks[0].Label)
	}
}
