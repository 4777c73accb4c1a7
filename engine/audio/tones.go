package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
	// WaveChime is a steady sine at the start frequency, no sweep or decay
	WaveChime
)

// NewChime plays a plain sine at freq for d
func NewChime(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(d), sine), nil
}

// tone is a decaying oscillator with a linear pitch sweep
type tone struct {
	sr       beep.SampleRate
	from, to float64
	wave     Wave
	pos      int
	total    int
	phase    float64
	seed     uint32
}

// NewTone creates a streamer that sweeps from one frequency to another
// over d and fades out exponentially.
func NewTone(from, to float64, d time.Duration, wave Wave) beep.Streamer {
	return &tone{
		sr:    sampleRate,
		from:  from,
		to:    to,
		wave:  wave,
		total: sampleRate.N(d),
		seed:  0x2545f491,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress

		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			// xorshift keeps playback independent of the simulation rand
			t.seed ^= t.seed << 13
			t.seed ^= t.seed >> 17
			t.seed ^= t.seed << 5
			v = float64(t.seed)/float64(math.MaxUint32)*2 - 1
		}
		v *= math.Exp(-4 * progress)

		samples[i][0] = v
		samples[i][1] = v

		t.phase += freq / float64(t.sr)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
