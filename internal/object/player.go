package object

import "github.com/tomz197/demonattack/internal/physics"

// Player cannon tuning.
const (
	PlayerWidth          = 40.0
	PlayerHeight         = 20.0
	PlayerSpeed          = 300.0
	InvincibilitySeconds = 2.0
	playerBaseOffset     = 50.0 // distance of the cannon centre above the bottom edge
	muzzleOffset         = 15.0
)

// Player is the cannon at the bottom of the playfield. It only moves sideways.
type Player struct {
	pos        physics.Vec
	invincible float64
	screen     Screen
}

// NewPlayer creates a player centred at the bottom of screen.
func NewPlayer(screen Screen) *Player {
	p := &Player{screen: screen}
	p.Reset()
	return p
}

// Reset recentres the cannon and ends any invincibility.
func (p *Player) Reset() {
	p.pos = physics.Vec{X: p.screen.Width / 2, Y: p.screen.Height - playerBaseOffset}
	p.invincible = 0
}

// TriggerInvincibility starts the post-hit grace period.
func (p *Player) TriggerInvincibility() {
	p.invincible = InvincibilitySeconds
}

// IsInvincible reports whether hits are currently ignored.
func (p *Player) IsInvincible() bool { return p.invincible > 0 }

// InvincibleTime returns the remaining grace period in seconds.
func (p *Player) InvincibleTime() float64 { return p.invincible }

// Position returns the centre of the cannon.
func (p *Player) Position() physics.Vec { return p.pos }

// Bounds returns the hitbox centred on the cannon.
func (p *Player) Bounds() physics.Rect {
	return physics.RectAround(p.pos, PlayerWidth, PlayerHeight)
}

// Muzzle returns where the player's bullet leaves the cannon.
func (p *Player) Muzzle() physics.Vec {
	return physics.Vec{X: p.pos.X, Y: p.pos.Y - muzzleOffset}
}

// Update counts down invincibility and moves the cannon by dir (-1 left,
// +1 right, 0 still), keeping it inside the playfield.
func (p *Player) Update(dt, dir float64) {
	if p.invincible > 0 {
		p.invincible -= dt
	}
	x := p.pos.X + dir*PlayerSpeed*dt
	p.pos.X = physics.Clamp(x, PlayerWidth/2, p.screen.Width-PlayerWidth/2)
}
