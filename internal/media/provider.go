package media

// Provider exposes decoded mono 16-bit PCM audio to the display layer.
//
// DecodedSamples may lag NumSamples while decoding is still in progress;
// it is updated from the decode goroutine and must be safe to read from the
// event loop, so implementations publish it atomically.
type Provider interface {
	// SampleRate returns the sample rate in Hz.
	SampleRate() int
	// NumSamples returns the total number of samples the stream will have.
	NumSamples() int64
	// DecodedSamples returns how many samples are available so far.
	DecodedSamples() int64
	// FillSamples copies samples starting at start into buf, zero-filling
	// whatever is not (yet) available, and returns how many real samples
	// were written.
	FillSamples(start int64, buf []int16) int
}

// DurationMS returns the provider's length in milliseconds, rounding up so
// the final partial millisecond is representable.
func DurationMS(p Provider) int {
	if p == nil {
		return 0
	}
	rate := int64(p.SampleRate())
	if rate == 0 {
		return 0
	}
	return int((p.NumSamples()*1000 + rate - 1) / rate)
}
