package object

import "github.com/tomz197/demonattack/internal/physics"

// Player bullet dimensions and speed.
const (
	BulletWidth  = 4.0
	BulletHeight = 12.0
	BulletSpeed  = 500.0
)

// Demon bullet dimensions.
const (
	DemonBulletWidth  = 6.0
	DemonBulletHeight = 10.0
)

// projectile is the state shared by both bullet kinds. Projectiles are never
// freed, only deactivated and fired again.
//
// A freshly fired projectile is launched but not armed: it moves and draws
// but collides with nothing until Arm is called at the start of the next
// frame.
type projectile struct {
	pos      physics.Vec
	vel      physics.Vec
	active   bool
	launched bool
	width    float64
	height   float64
}

// Position returns the centre of the projectile.
func (p *projectile) Position() physics.Vec { return p.pos }

// Velocity returns the current velocity in units per second.
func (p *projectile) Velocity() physics.Vec { return p.vel }

// Active reports whether the projectile is in flight.
func (p *projectile) Active() bool { return p.active }

// Armed reports whether the projectile is in flight and was fired before
// the current frame.
func (p *projectile) Armed() bool { return p.active && !p.launched }

// Arm lets a projectile fired last frame collide from now on.
func (p *projectile) Arm() { p.launched = false }

// Bounds returns the hitbox centred on the projectile's position.
func (p *projectile) Bounds() physics.Rect {
	return physics.RectAround(p.pos, p.width, p.height)
}

// Deactivate takes the projectile out of play. Safe to call repeatedly.
func (p *projectile) Deactivate() {
	p.active = false
}

func (p *projectile) move(dt float64) {
	p.pos = p.pos.Add(p.vel.Scale(dt))
}

// Bullet is the player's single upward shot.
type Bullet struct {
	projectile
}

// NewBullet creates an inactive player bullet.
func NewBullet() *Bullet {
	return &Bullet{projectile{width: BulletWidth, height: BulletHeight}}
}

// Fire launches the bullet straight up from origin. An active bullet restarts
// from the new origin.
func (b *Bullet) Fire(origin physics.Vec) {
	b.pos = origin
	b.vel = physics.Vec{X: 0, Y: -BulletSpeed}
	b.active = true
	b.launched = true
}

// Update moves the bullet and retires it once it has left the top edge.
func (b *Bullet) Update(dt float64) {
	if !b.active {
		return
	}
	b.move(dt)
	if b.pos.Y < -b.height {
		b.active = false
	}
}

// DemonBullet is a shot aimed from a demon toward a target point.
type DemonBullet struct {
	projectile
	screen Screen
}

// NewDemonBullet creates an inactive demon bullet for the given playfield.
func NewDemonBullet(screen Screen) *DemonBullet {
	return &DemonBullet{
		projectile: projectile{width: DemonBulletWidth, height: DemonBulletHeight},
		screen:     screen,
	}
}

// Fire launches the bullet from origin toward target at speed. When origin and
// target coincide the bullet falls straight down.
func (b *DemonBullet) Fire(origin, target physics.Vec, speed float64) {
	dir, ok := target.Sub(origin).Normalize()
	if !ok {
		dir = physics.Vec{X: 0, Y: 1}
	}
	b.pos = origin
	b.vel = dir.Scale(speed)
	b.active = true
	b.launched = true
}

// Update moves the bullet and retires it past the bottom, left or right edge.
func (b *DemonBullet) Update(dt float64) {
	if !b.active {
		return
	}
	b.move(dt)
	if b.pos.Y > b.screen.Height+b.height ||
		b.pos.X < -b.width ||
		b.pos.X > b.screen.Width+b.width {
		b.active = false
	}
}
