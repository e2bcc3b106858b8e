package audio

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

var errInvalidFrequency = errors.New("audio: frequency must be positive")

// Synth generates every effect procedurally and plays it through the
// speaker. Until Init succeeds it stays silent.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      float64
	initialized bool
	logger      *log.Logger
}

// NewSynth creates a silent synth with the given master volume.
func NewSynth(master float64, logger *log.Logger) *Synth {
	return &Synth{
		mixer:  &beep.Mixer{},
		master: master,
		logger: logger,
	}
}

// Init opens the audio device. On failure the synth keeps running silently
// and the error is returned for logging.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close stops all sounds.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// Play implements Sink.
func (s *Synth) Play(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	st, err := Effect(e, s.master)
	if err != nil {
		s.logger.Debug("sound effect unavailable", "event", e, "err", err)
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Effect builds the finite streamer for e at the given master volume.
func Effect(e Event, master float64) (beep.Streamer, error) {
	var (
		st  beep.Streamer
		err error
	)
	switch e {
	case Shoot:
		st, err = sweep(880, 1320, 60*time.Millisecond)
	case DemonShoot:
		st, err = tone(440, 50*time.Millisecond)
	case Explosion:
		st = noise(250 * time.Millisecond)
	case PlayerHit:
		st, err = sequence(300*time.Millisecond, 120, 90)
	case WaveComplete:
		st, err = sequence(100*time.Millisecond, 523.25, 659.25, 783.99)
	case GameOver:
		st, err = sequence(200*time.Millisecond, 392, 329.63, 261.63)
	default:
		return beep.Silence(0), nil
	}
	if err != nil {
		return nil, err
	}
	return newVolume(st, Volume(e, master)), nil
}

// newVolume wraps s in a gain stage. Non-positive gain is silent since
// log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone plays a sine at freq for d, fading out linearly.
func tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return fade(beep.Take(sampleRate.N(d), sine), sampleRate.N(d)), nil
}

// sequence plays each frequency for step, one after another.
func sequence(step time.Duration, freqs ...float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		t, err := tone(f, step)
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}
	return beep.Seq(parts...), nil
}

// sweep glides from one frequency to another over d.
func sweep(from, to float64, d time.Duration) (beep.Streamer, error) {
	if from <= 0 || to <= 0 {
		return nil, errInvalidFrequency
	}
	total := sampleRate.N(d)
	pos, phase := 0, 0.0
	st := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			t := float64(pos) / float64(total)
			phase += (from + (to-from)*t) / float64(sampleRate)
			v := math.Sin(2*math.Pi*phase) * (1 - t)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
	return st, nil
}

// noise is a decaying white-noise burst.
func noise(d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			decay := 1 - float64(pos)/float64(total)
			v := (rand.Float64()*2 - 1) * decay * decay
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}

// fade applies a linear fade-out over the first total samples of s.
func fade(s beep.Streamer, total int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			g := 1 - float64(pos)/float64(total)
			if g < 0 {
				g = 0
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}
