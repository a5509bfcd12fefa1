// Package audio synthesizes the short alert tone played for error
// notifications.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	DefaultFrequency  = 800
	DefaultDuration   = 500 * time.Millisecond
	DefaultGain       = 0.3
	DefaultEndGain    = 0.01
	DefaultSampleRate = 22050

	bitsPerSample = 16
	channels      = 1
)

// Tone is a sine wave whose gain decays exponentially from Gain to EndGain.
type Tone struct {
	Frequency  float64
	Duration   time.Duration
	Gain       float64
	EndGain    float64
	SampleRate int
}

func AlertTone() Tone {
	return Tone{
		Frequency:  DefaultFrequency,
		Duration:   DefaultDuration,
		Gain:       DefaultGain,
		EndGain:    DefaultEndGain,
		SampleRate: DefaultSampleRate,
	}
}

func (t Tone) Samples() []int16 {
	n := int(t.Duration.Seconds() * float64(t.SampleRate))
	if n <= 0 || t.Gain <= 0 {
		return nil
	}

	samples := make([]int16, n)
	ratio := t.EndGain / t.Gain
	for i := range samples {
		pos := float64(i) / float64(n)
		gain := t.Gain * math.Pow(ratio, pos)
		v := gain * math.Sin(2*math.Pi*t.Frequency*float64(i)/float64(t.SampleRate))
		samples[i] = int16(v * math.MaxInt16)
	}
	return samples
}

// WAV encodes the tone as a mono 16-bit PCM RIFF file.
func (t Tone) WAV() ([]byte, error) {
	const op = "audio.Tone.WAV"

	if t.SampleRate <= 0 {
		return nil, fmt.Errorf("%s: invalid sample rate %d", op, t.SampleRate)
	}

	samples := t.Samples()
	dataSize := uint32(len(samples) * bitsPerSample / 8)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		36 + dataSize,
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(t.SampleRate),
		uint32(t.SampleRate) * uint32(blockAlign),
		blockAlign,
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, field := range header {
		if err := binary.Write(&buf, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
