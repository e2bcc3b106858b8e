// Package collision answers which objects overlap this frame. The queries
// are pure; acting on a hit is up to the caller. Only armed projectiles
// collide, so a shot never hits anything in the frame it was fired.
package collision

import "github.com/tomz197/demonattack/internal/object"

// Hit identifies the demon struck by the player's bullet and where.
type Hit struct {
	Demon *object.Demon
	Part  object.Part
}

// Kill reports whether the hit destroys the demon.
func (h Hit) Kill() bool {
	return h.Part == object.PartBody
}

// BulletVsDemons returns the first active demon, in slice order, that the
// armed bullet overlaps. With wings enabled each demon is tested body first, then
// the left wing, then the right wing, skipping wings already knocked off.
func BulletVsDemons(b *object.Bullet, demons []*object.Demon, wings bool) (Hit, bool) {
	if !b.Armed() {
		return Hit{}, false
	}
	r := b.Bounds()
	for _, d := range demons {
		if !d.Active() {
			continue
		}
		if r.Intersects(d.Bounds()) {
			return Hit{Demon: d, Part: object.PartBody}, true
		}
		if !wings {
			continue
		}
		for _, p := range []object.Part{object.PartLeftWing, object.PartRightWing} {
			if d.WingAlive(p) && r.Intersects(d.WingBounds(p)) {
				return Hit{Demon: d, Part: p}, true
			}
		}
	}
	return Hit{}, false
}

// DemonBulletsVsPlayer returns the first armed bullet touching the player,
// or nil. An invincible player is never hit.
func DemonBulletsVsPlayer(bullets []*object.DemonBullet, p *object.Player) *object.DemonBullet {
	if p.IsInvincible() {
		return nil
	}
	r := p.Bounds()
	for _, b := range bullets {
		if b.Armed() && b.Bounds().Intersects(r) {
			return b
		}
	}
	return nil
}

// DemonsVsPlayer returns the first active demon whose body touches the
// player, or nil. An invincible player is never hit.
func DemonsVsPlayer(demons []*object.Demon, p *object.Player) *object.Demon {
	if p.IsInvincible() {
		return nil
	}
	r := p.Bounds()
	for _, d := range demons {
		if d.Active() && d.Bounds().Intersects(r) {
			return d
		}
	}
	return nil
}
