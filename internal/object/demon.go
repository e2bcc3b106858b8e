package object

import (
	"image/color"
	"math"

	"github.com/tomz197/demonattack/internal/physics"
)

// DemonSize represents the size category of a demon.
type DemonSize int

const (
	DemonSmall DemonSize = iota + 1
	DemonLarge
)

// String returns the size name.
func (s DemonSize) String() string {
	switch s {
	case DemonSmall:
		return "small"
	case DemonLarge:
		return "large"
	default:
		return "unknown"
	}
}

// demonDims maps each size to its hitbox.
var demonDims = map[DemonSize]struct{ W, H float64 }{
	DemonSmall: {25, 20},
	DemonLarge: {40, 30},
}

// DemonPoints maps each size to the score for destroying it.
var DemonPoints = map[DemonSize]int{
	DemonSmall: 10,
	DemonLarge: 20,
}

// demonScale is the drawing and wing scale relative to a large demon.
var demonScale = map[DemonSize]float64{
	DemonSmall: 0.65,
	DemonLarge: 1,
}

// Motion tuning.
const (
	SwoopDepth           = 180.0 // vertical distance covered by one swoop
	SwoopSpeed           = 280.0 // downward speed while swooping
	OscillationAmplitude = 15.0  // vertical bob around home
	oscillationRate      = 2.0
	homeTolerance        = 5.0
	riseRate             = 0.4 // fraction of SwoopSpeed when returning up
	sinkRate             = 0.2 // fraction of SwoopSpeed when dropping back down
	swoopDrift           = 0.5 // horizontal speed factor while swooping
)

// Part identifies which piece of a demon was hit.
type Part int

const (
	PartBody Part = iota
	PartLeftWing
	PartRightWing
)

// String returns the part name.
func (p Part) String() string {
	switch p {
	case PartBody:
		return "body"
	case PartLeftWing:
		return "left wing"
	case PartRightWing:
		return "right wing"
	default:
		return "unknown"
	}
}

// WingStyle selects how a demon's wings are drawn.
type WingStyle int

const (
	WingsBat WingStyle = iota
	WingsClaw
)

// Appearance is the cosmetic variant of a demon. Only renderers read it.
type Appearance struct {
	Color color.RGBA
	Wings WingStyle
}

// Demon is an enemy that patrols near its home row and periodically swoops
// toward the player.
type Demon struct {
	pos        physics.Vec
	active     bool
	size       DemonSize
	appearance Appearance
	screen     Screen
	rng        Rand

	baseSpeed     float64
	direction     float64 // +1 right, -1 left
	swoopTimer    float64
	swoopCooldown float64
	swooping      bool
	swoopStartY   float64
	homeY         float64
	oscPhase      float64
	fireTimer     float64

	leftWing  bool
	rightWing bool

	animTime  float64
	flapSpeed float64
	pulse     float64
}

// NewDemon creates an inactive demon drawing randomness from rng.
func NewDemon(screen Screen, look Appearance, rng Rand) *Demon {
	return &Demon{screen: screen, appearance: look, rng: rng}
}

// Spawn activates the demon at pos and rerolls all of its timers.
func (d *Demon) Spawn(pos physics.Vec, size DemonSize, baseSpeed, aggressiveness float64) {
	d.pos = pos
	d.size = size
	d.baseSpeed = baseSpeed
	d.direction = 1
	if d.rng.Intn(2) == 0 {
		d.direction = -1
	}
	d.swoopTimer = d.rng.Float64() * 2
	d.swoopCooldown = 1.5 + d.rng.Float64()*2
	d.swoopStartY = pos.Y
	d.homeY = pos.Y
	d.oscPhase = d.rng.Float64() * 2 * math.Pi
	d.swooping = false
	d.fireTimer = d.rng.Float64() * (3 / aggressiveness)
	d.leftWing = true
	d.rightWing = true
	d.active = true

	d.animTime = d.rng.Float64() * 2 * math.Pi
	d.flapSpeed = 8 + d.rng.Float64()*4
	d.pulse = d.rng.Float64() * 2 * math.Pi
}

// Position returns the centre of the demon.
func (d *Demon) Position() physics.Vec { return d.pos }

// Active reports whether the demon is alive.
func (d *Demon) Active() bool { return d.active }

// Size returns the size category.
func (d *Demon) Size() DemonSize { return d.size }

// Swooping reports whether the demon is mid-dive.
func (d *Demon) Swooping() bool { return d.swooping }

// Direction returns +1 when moving right and -1 when moving left.
func (d *Demon) Direction() float64 { return d.direction }

// HomeY returns the row the demon patrols around.
func (d *Demon) HomeY() float64 { return d.homeY }

// Appearance returns the cosmetic variant.
func (d *Demon) Appearance() Appearance { return d.appearance }

// Width returns the hitbox width.
func (d *Demon) Width() float64 { return demonDims[d.size].W }

// Height returns the hitbox height.
func (d *Demon) Height() float64 { return demonDims[d.size].H }

// Points returns the score for destroying the demon.
func (d *Demon) Points() int { return DemonPoints[d.size] }

// ShouldSplit reports whether destroying this demon spawns two small ones.
func (d *Demon) ShouldSplit() bool { return d.size == DemonLarge }

// Bounds returns the body hitbox centred on the demon's position.
func (d *Demon) Bounds() physics.Rect {
	return physics.RectAround(d.pos, d.Width(), d.Height())
}

// Destroy takes the demon out of play. It never spawns replacements.
func (d *Demon) Destroy() {
	d.active = false
}

// WingAlive reports whether the given wing is still attached.
// The body always counts as alive.
func (d *Demon) WingAlive(p Part) bool {
	switch p {
	case PartLeftWing:
		return d.leftWing
	case PartRightWing:
		return d.rightWing
	default:
		return true
	}
}

// DisableWing knocks off a wing. The demon keeps flying unchanged.
func (d *Demon) DisableWing(p Part) {
	switch p {
	case PartLeftWing:
		d.leftWing = false
	case PartRightWing:
		d.rightWing = false
	}
}

// WingBounds returns the hitbox of a wing. Wings sit beside the body,
// slightly above its centre, and scale with the demon's size.
func (d *Demon) WingBounds(p Part) physics.Rect {
	s := demonScale[d.size]
	w, h := 22*s, 18*s
	y := d.pos.Y - 6*s - h/2
	if p == PartLeftWing {
		return physics.Rect{X: d.pos.X - 12*s - w, Y: y, W: w, H: h}
	}
	return physics.Rect{X: d.pos.X + 12*s, Y: y, W: w, H: h}
}

// Scale returns the drawing scale relative to a large demon.
func (d *Demon) Scale() float64 { return demonScale[d.size] }

// WingFlap returns the current wing angle in [-1, 1].
func (d *Demon) WingFlap() float64 { return math.Sin(d.animTime) }

// Pulse returns the current body brightness factor in [0.7, 1].
func (d *Demon) Pulse() float64 {
	return 0.85 + math.Sin(d.animTime*0.5+d.pulse)*0.15
}

// Update advances the demon by dt seconds. speedMultiplier scales the
// horizontal patrol speed; swoop dives ignore it.
func (d *Demon) Update(dt, speedMultiplier float64) {
	if !d.active {
		return
	}

	speed := d.baseSpeed * speedMultiplier
	d.animTime += dt * d.flapSpeed
	d.oscPhase += dt * oscillationRate

	if d.swooping {
		x := d.stepX(speed * swoopDrift * dt)
		d.pos = physics.Vec{X: x, Y: d.pos.Y + SwoopSpeed*dt}
		if d.pos.Y >= d.swoopStartY+SwoopDepth {
			d.swooping = false
		}
		return
	}

	x := d.stepX(speed * dt)

	// Ease back toward the bobbing target, rising faster than sinking.
	target := d.homeY + math.Sin(d.oscPhase)*OscillationAmplitude
	y := d.pos.Y
	switch {
	case y > target+homeTolerance:
		y -= SwoopSpeed * dt * riseRate
	case y < target-homeTolerance:
		y += SwoopSpeed * dt * sinkRate
	default:
		y = target
	}
	d.pos = physics.Vec{X: x, Y: y}

	d.swoopTimer += dt
	if d.swoopTimer >= d.swoopCooldown {
		d.swoopTimer = 0
		d.swoopCooldown = 1.5 + d.rng.Float64()*2.5
		d.swoopStartY = d.pos.Y
		d.swooping = true
	}
}

// stepX moves horizontally by dist in the current direction, reversing and
// clamping at the playfield edges.
func (d *Demon) stepX(dist float64) float64 {
	half := d.Width() / 2
	x := d.pos.X + d.direction*dist
	if x <= half || x >= d.screen.Width-half {
		d.direction = -d.direction
		x = physics.Clamp(x, half, d.screen.Width-half)
	}
	return x
}

// TryFire counts down the fire timer and reports true once each time it
// expires. The next interval shrinks as aggressiveness grows.
func (d *Demon) TryFire(dt, aggressiveness float64) bool {
	if !d.active {
		return false
	}
	d.fireTimer -= dt
	if d.fireTimer <= 0 {
		d.fireTimer = (2 + d.rng.Float64()*2) / aggressiveness
		return true
	}
	return false
}
