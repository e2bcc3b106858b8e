package object

// DemonBulletPoolSize is the number of demon bullets that can be in flight at once.
const DemonBulletPoolSize = 10

// BulletPool is a fixed arena of demon bullets. Slots are reused in index
// order and the pool never grows.
type BulletPool struct {
	slots []*DemonBullet
}

// NewBulletPool creates a pool of size inactive bullets.
func NewBulletPool(size int, screen Screen) *BulletPool {
	p := &BulletPool{slots: make([]*DemonBullet, size)}
	for i := range p.slots {
		p.slots[i] = NewDemonBullet(screen)
	}
	return p
}

// Acquire returns the first inactive bullet, or nil when every slot is in flight.
func (p *BulletPool) Acquire() *DemonBullet {
	for _, b := range p.slots {
		if !b.active {
			return b
		}
	}
	return nil
}

// Update advances every bullet in the pool.
func (p *BulletPool) Update(dt float64) {
	for _, b := range p.slots {
		b.Update(dt)
	}
}

// Arm arms every bullet fired in an earlier frame.
func (p *BulletPool) Arm() {
	for _, b := range p.slots {
		b.Arm()
	}
}

// DeactivateAll retires every bullet.
func (p *BulletPool) DeactivateAll() {
	for _, b := range p.slots {
		b.Deactivate()
	}
}

// Bullets returns the slots in index order. The slice must not be modified.
func (p *BulletPool) Bullets() []*DemonBullet {
	return p.slots
}

// ActiveCount returns how many bullets are in flight.
func (p *BulletPool) ActiveCount() int {
	n := 0
	for _, b := range p.slots {
		if b.active {
			n++
		}
	}
	return n
}
