// Package wave spawns demons in waves, scales difficulty with the wave number
// and drives demon fire through a fixed bullet pool.
package wave

import (
	"image/color"
	"math/rand"

	"golang.org/x/image/colornames"

	"github.com/tomz197/demonattack/internal/object"
	"github.com/tomz197/demonattack/internal/physics"
)

// Layout and difficulty tuning.
const (
	BaseDemonCount = 6
	MaxDemonCount  = 12
	DemonsPerRow   = 6
	FirstRowY      = 80.0
	RowSpacing     = 60.0

	baseSpeed          = 50.0
	baseSpeedPerWave   = 10.0
	splitSpeed         = 60.0
	splitSpeedPerWave  = 15.0
	SplitOffset        = 20.0
	bulletSpeed        = 150.0
	bulletSpeedPerWave = 20.0
	aggressionPerWave  = 0.2
	maxSpeedBoost      = 0.5
)

// Palette cycles through one colour per wave.
var Palette = []color.RGBA{
	colornames.Magenta,
	colornames.Cyan,
	colornames.Orange,
	colornames.Yellow,
	colornames.Limegreen,
	colornames.Hotpink,
	colornames.Aquamarine,
	colornames.Coral,
}

// Manager owns the demons of the current wave and the demon bullet pool.
type Manager struct {
	screen  object.Screen
	rng     *rand.Rand
	wave    int
	demons  []*object.Demon
	bullets *object.BulletPool
}

// NewManager creates a manager at wave 0. Every demon gets its own random
// source derived from rng, so a seeded rng reproduces a whole game.
func NewManager(screen object.Screen, rng *rand.Rand) *Manager {
	return &Manager{
		screen:  screen,
		rng:     rng,
		bullets: object.NewBulletPool(object.DemonBulletPoolSize, screen),
	}
}

// CurrentWave returns the wave number, 0 before the first wave.
func (m *Manager) CurrentWave() int { return m.wave }

// Demons returns the demons of the current wave in spawn order.
// The slice must not be modified.
func (m *Manager) Demons() []*object.Demon { return m.demons }

// Bullets returns the demon bullet pool.
func (m *Manager) Bullets() *object.BulletPool { return m.bullets }

// Reset returns to wave 0 with no demons and no bullets in flight.
func (m *Manager) Reset() {
	m.wave = 0
	m.demons = nil
	m.bullets.DeactivateAll()
}

// StartNextWave advances the wave counter and replaces the demon roster.
func (m *Manager) StartNextWave() {
	m.wave++
	m.spawnWave()
}

// DemonCount returns how many demons a wave starts with.
func DemonCount(wave int) int {
	return min(BaseDemonCount+(wave-1), MaxDemonCount)
}

// Aggressiveness returns the fire-rate scale for a wave.
func Aggressiveness(wave int) float64 {
	return 1 + float64(wave-1)*aggressionPerWave
}

// BulletSpeed returns demon bullet speed for a wave.
func BulletSpeed(wave int) float64 {
	return bulletSpeed + float64(wave)*bulletSpeedPerWave
}

// Color returns the palette colour of a wave.
func Color(wave int) color.RGBA {
	return Palette[(wave-1)%len(Palette)]
}

func (m *Manager) spawnWave() {
	count := DemonCount(m.wave)
	m.demons = make([]*object.Demon, 0, count+2)
	speed := baseSpeed + float64(m.wave-1)*baseSpeedPerWave
	aggr := m.Aggressiveness()
	perRow := min(count, DemonsPerRow)

	spawned := 0
	for row := 0; spawned < count; row++ {
		inRow := min(perRow, count-spawned)
		y := FirstRowY + float64(row)*RowSpacing
		spacing := m.screen.Width / float64(inRow+1)
		for col := 0; col < inRow; col++ {
			d := m.newDemon()
			d.Spawn(physics.Vec{X: spacing * float64(col+1), Y: y}, object.DemonLarge, speed, aggr)
			m.demons = append(m.demons, d)
			spawned++
		}
	}
}

// appearance picks the cosmetic variant: colour by wave, wing style flips
// each time the palette wraps.
func (m *Manager) appearance() object.Appearance {
	style := object.WingsBat
	if ((m.wave-1)/len(Palette))%2 == 1 {
		style = object.WingsClaw
	}
	return object.Appearance{Color: Color(m.wave), Wings: style}
}

func (m *Manager) newDemon() *object.Demon {
	rng := rand.New(rand.NewSource(m.rng.Int63()))
	return object.NewDemon(m.screen, m.appearance(), rng)
}

// SpawnSplitDemons adds two small demons either side of parent. They move
// faster than the wave's large demons.
func (m *Manager) SpawnSplitDemons(parent *object.Demon) {
	speed := splitSpeed + float64(m.wave-1)*splitSpeedPerWave
	pos := parent.Position()
	for _, dx := range []float64{-SplitOffset, SplitOffset} {
		d := m.newDemon()
		d.Spawn(physics.Vec{X: pos.X + dx, Y: pos.Y}, object.DemonSmall, speed, m.Aggressiveness())
		m.demons = append(m.demons, d)
	}
}

// Update arms bullets fired in earlier frames, moves every active demon, lets
// each one try to fire at playerPos and advances the bullets. A shot that finds no free bullet is dropped. Returns
// true if at least one bullet was launched.
func (m *Manager) Update(dt float64, playerPos physics.Vec) bool {
	mult := m.SpeedMultiplier()
	aggr := m.Aggressiveness()
	fired := false

	m.bullets.Arm()
	for _, d := range m.demons {
		if !d.Active() {
			continue
		}
		d.Update(dt, mult)
		if d.TryFire(dt, aggr) {
			if b := m.bullets.Acquire(); b != nil {
				b.Fire(d.Position(), playerPos, BulletSpeed(m.wave))
				fired = true
			}
		}
	}

	m.bullets.Update(dt)
	return fired
}

// ActiveCount returns the number of demons still alive.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, d := range m.demons {
		if d.Active() {
			n++
		}
	}
	return n
}

// SpeedMultiplier rises linearly from 1 with a full roster to 1.5 once every
// demon is gone.
func (m *Manager) SpeedMultiplier() float64 {
	total := len(m.demons)
	if total == 0 {
		return 1
	}
	remaining := float64(m.ActiveCount()) / float64(total)
	return 1 + (1-remaining)*maxSpeedBoost
}

// Aggressiveness returns the fire-rate scale of the current wave.
func (m *Manager) Aggressiveness() float64 {
	return Aggressiveness(m.wave)
}

// WaveComplete reports whether every demon of the wave is gone.
func (m *Manager) WaveComplete() bool {
	for _, d := range m.demons {
		if d.Active() {
			return false
		}
	}
	return true
}
