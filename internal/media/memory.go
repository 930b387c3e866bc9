package media

// MemoryProvider serves PCM from a slice, fully decoded up front. Used by
// tests and by synthetic audio.
type MemoryProvider struct {
	rate    int
	samples []int16
}

func NewMemoryProvider(rate int, samples []int16) *MemoryProvider {
	return &MemoryProvider{rate: rate, samples: samples}
}

// SilentProvider returns a provider of the given duration filled with
// silence.
func SilentProvider(rate, durationMS int) *MemoryProvider {
	n := int64(rate) * int64(durationMS) / 1000
	return &MemoryProvider{rate: rate, samples: make([]int16, n)}
}

func (p *MemoryProvider) SampleRate() int       { return p.rate }
func (p *MemoryProvider) NumSamples() int64     { return int64(len(p.samples)) }
func (p *MemoryProvider) DecodedSamples() int64 { return int64(len(p.samples)) }

func (p *MemoryProvider) FillSamples(start int64, buf []int16) int {
	for i := range buf {
		buf[i] = 0
	}
	if start >= int64(len(p.samples)) {
		return 0
	}
	n := copy(buf, p.samples[start:])
	return n
}
