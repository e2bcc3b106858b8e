// Package object holds the playfield entities: the player cannon, its bullet,
// the demons and the pooled demon bullets.
package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/demonattack/internal/draw"
)

// Screen is the size of the logical playfield.
type Screen struct {
	Width  float64
	Height float64
}

// DefaultScreen is the playfield every front end simulates.
var DefaultScreen = Screen{Width: 800, Height: 600}

// Rand is a per-instance source of pseudo-random numbers. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a Rand seeded with seed, or with the clock when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
}

// ShouldRenderBlink returns true if an object with remaining invincibility
// time should be rendered this frame. Always true once the time is used up.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
