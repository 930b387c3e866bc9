package media

import "testing"

func TestMemoryProviderFill(t *testing.T) {
	samples := []int16{1, 2, 3, 4, 5}
	p := NewMemoryProvider(48000, samples)

	buf := make([]int16, 3)
	if n := p.FillSamples(1, buf); n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
	if buf[0] != 2 || buf[2] != 4 {
		t.Errorf("buf = %v, want [2 3 4]", buf)
	}

	// reading past the end zero-fills
	if n := p.FillSamples(4, buf); n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
	if buf[0] != 5 || buf[1] != 0 || buf[2] != 0 {
		t.Errorf("buf = %v, want [5 0 0]", buf)
	}

	if n := p.FillSamples(100, buf); n != 0 {
		t.Errorf("n = %d past the end, want 0", n)
	}
}

func TestDurationRoundsUp(t *testing.T) {
	// 48001 samples at 48 kHz is just over one second
	p := NewMemoryProvider(48000, make([]int16, 48001))
	if got := DurationMS(p); got != 1001 {
		t.Errorf("duration = %d, want 1001", got)
	}

	if DurationMS(nil) != 0 {
		t.Errorf("nil provider should have zero duration")
	}
}

func TestSilentProvider(t *testing.T) {
	p := SilentProvider(48000, 500)
	if p.NumSamples() != 24000 {
		t.Errorf("samples = %d, want 24000", p.NumSamples())
	}
	if p.DecodedSamples() != p.NumSamples() {
		t.Errorf("silence should be fully decoded")
	}
}

func TestPCMSinkSplitsOddWrites(t *testing.T) {
	p := &PCMProvider{rate: 48000}
	sink := &pcmSink{provider: p}

	// a sample split across two writes must reassemble
	if _, err := sink.Write([]byte{0x01}); err != nil {
		t.Fatal(err)
	}
	if p.DecodedSamples() != 0 {
		t.Fatalf("half a sample decoded")
	}
	if _, err := sink.Write([]byte{0x02, 0x03, 0x04}); err != nil {
		t.Fatal(err)
	}

	if p.DecodedSamples() != 2 {
		t.Fatalf("decoded = %d, want 2", p.DecodedSamples())
	}
	buf := make([]int16, 2)
	p.FillSamples(0, buf)
	if buf[0] != 0x0201 || buf[1] != 0x0403 {
		t.Errorf("samples = %#v, want little-endian reassembly", buf)
	}
}
