package media

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/nmkale/subtide/internal/ffmpeg"
)

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
	} `json:"streams"`
}

// ProbeResult describes an audio stream before decoding.
type ProbeResult struct {
	DurationMS int
	SampleRate int
}

// Probe inspects a media file with ffprobe.
func Probe(path string) (ProbeResult, error) {
	var res ProbeResult

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return res, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return res, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return res, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return res, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return res, fmt.Errorf("failed to parse duration: %w", err)
	}
	res.DurationMS = int(seconds * 1000)

	res.SampleRate = 48000
	for _, stream := range probe.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		if rate, err := strconv.Atoi(stream.SampleRate); err == nil && rate > 0 {
			res.SampleRate = rate
		}
		break
	}

	return res, nil
}

// PCMProvider decodes a file to mono 16-bit PCM through ffmpeg on a
// background goroutine, making samples available as they arrive.
type PCMProvider struct {
	rate       int
	numSamples int64

	mu      sync.Mutex
	samples []int16

	decoded atomic.Int64

	decodeErr atomic.Value // error
	done      chan struct{}
}

// OpenPCM probes path and starts decoding it. Samples become readable
// immediately; DecodedSamples advances as ffmpeg produces output.
func OpenPCM(path string) (*PCMProvider, error) {
	probe, err := Probe(path)
	if err != nil {
		return nil, err
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	p := &PCMProvider{
		rate:       probe.SampleRate,
		numSamples: int64(probe.SampleRate) * int64(probe.DurationMS) / 1000,
		done:       make(chan struct{}),
	}
	p.samples = make([]int16, 0, p.numSamples)

	go func() {
		defer close(p.done)
		err := ffmpeg.Input(path).
			Output("pipe:", ffmpeg.KwArgs{
				"f":      "s16le",
				"acodec": "pcm_s16le",
				"ac":     1,
				"ar":     p.rate,
				"vn":     "",
			}).
			SetFfmpegPath(ffmpegPath).
			WithOutput(&pcmSink{provider: p}).
			Run()
		if err != nil {
			p.decodeErr.Store(fmt.Errorf("audio decode failed: %w", err))
		}
		// trust what ffmpeg actually produced over the probe estimate
		p.mu.Lock()
		p.numSamples = int64(len(p.samples))
		p.mu.Unlock()
		p.decoded.Store(p.numSamples)
	}()

	return p, nil
}

// accepts raw little-endian PCM from the ffmpeg pipe
type pcmSink struct {
	provider *PCMProvider
	carry    []byte
}

func (s *pcmSink) Write(data []byte) (int, error) {
	p := s.provider
	buf := data
	if len(s.carry) > 0 {
		buf = append(s.carry, data...)
		s.carry = nil
	}

	n := len(buf) / 2
	if len(buf)%2 != 0 {
		s.carry = []byte{buf[len(buf)-1]}
	}

	chunk := make([]int16, n)
	for i := 0; i < n; i++ {
		chunk[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	p.mu.Lock()
	p.samples = append(p.samples, chunk...)
	total := int64(len(p.samples))
	p.mu.Unlock()
	p.decoded.Store(total)

	return len(data), nil
}

func (p *PCMProvider) SampleRate() int { return p.rate }

func (p *PCMProvider) NumSamples() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.numSamples < int64(len(p.samples)) {
		return int64(len(p.samples))
	}
	return p.numSamples
}

func (p *PCMProvider) DecodedSamples() int64 { return p.decoded.Load() }

// Err returns the decode error, if the background decode failed.
func (p *PCMProvider) Err() error {
	if err, ok := p.decodeErr.Load().(error); ok {
		return err
	}
	return nil
}

// Wait blocks until decoding has finished. Mainly for tests and batch use.
func (p *PCMProvider) Wait() {
	<-p.done
}

func (p *PCMProvider) FillSamples(start int64, buf []int16) int {
	for i := range buf {
		buf[i] = 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if start >= int64(len(p.samples)) {
		return 0
	}
	return copy(buf, p.samples[start:])
}
