// Package audio turns game events into sound. The game only emits events;
// how (or whether) they are heard depends on the Sink.
package audio

import (
	"io"
	"sync"

	"github.com/tomz197/demonattack/internal/draw"
)

// Event is a discrete sound trigger.
type Event int

const (
	Shoot Event = iota
	Explosion
	PlayerHit
	WaveComplete
	GameOver
	DemonShoot
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case Shoot:
		return "shoot"
	case Explosion:
		return "explosion"
	case PlayerHit:
		return "player-hit"
	case WaveComplete:
		return "wave-complete"
	case GameOver:
		return "game-over"
	case DemonShoot:
		return "demon-shoot"
	default:
		return "unknown"
	}
}

// DefaultMasterVolume scales every effect.
const DefaultMasterVolume = 0.5

// effectVolume is the relative loudness of each event before the master volume.
var effectVolume = map[Event]float64{
	Shoot:        0.6,
	Explosion:    0.8,
	PlayerHit:    1.0,
	WaveComplete: 0.7,
	GameOver:     0.8,
	DemonShoot:   0.4,
}

// Volume returns the final gain of e at the given master volume.
func Volume(e Event, master float64) float64 {
	return effectVolume[e] * master
}

// Sink receives sound events.
type Sink interface {
	Play(e Event)
}

// Nop discards every event.
type Nop struct{}

// Play implements Sink.
func (Nop) Play(Event) {}

// Bell rings the terminal bell for the events that matter most. It is used
// where no local audio device exists, such as SSH sessions.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play implements Sink.
func (b *Bell) Play(e Event) {
	if e != PlayerHit && e != GameOver {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	draw.Bell(b.w)
}
