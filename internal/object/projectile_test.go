package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/demonattack/internal/physics"
)

func TestBulletFireAndMove(t *testing.T) {
	b := NewBullet()
	require.False(t, b.Active())

	b.Fire(physics.Vec{X: 400, Y: 535})
	require.True(t, b.Active())

	b.Update(0.1)
	assert.InDelta(t, 400, b.Position().X, 1e-9)
	assert.InDelta(t, 485, b.Position().Y, 1e-9)
	assert.Equal(t, physics.Rect{X: 398, Y: 479, W: 4, H: 12}, b.Bounds())
}

func TestBulletRefireRestartsFromNewOrigin(t *testing.T) {
	b := NewBullet()
	b.Fire(physics.Vec{X: 400, Y: 535})
	b.Update(0.2)

	b.Fire(physics.Vec{X: 100, Y: 300})
	assert.True(t, b.Active())
	assert.Equal(t, physics.Vec{X: 100, Y: 300}, b.Position())
}

func TestBulletArmsOnNextFrame(t *testing.T) {
	b := NewBullet()
	b.Fire(physics.Vec{X: 400, Y: 535})
	b.Update(1.0 / 60)
	assert.False(t, b.Armed(), "fired this frame")

	b.Arm()
	assert.True(t, b.Armed())

	b.Fire(physics.Vec{X: 100, Y: 300})
	assert.False(t, b.Armed(), "refiring disarms")

	b.Arm()
	b.Deactivate()
	assert.False(t, b.Armed())
}

func TestBulletPoolArm(t *testing.T) {
	p := NewBulletPool(2, DefaultScreen)
	first := p.Acquire()
	first.Fire(physics.Vec{X: 10, Y: 10}, physics.Vec{X: 10, Y: 20}, 100)
	p.Arm()
	second := p.Acquire()
	second.Fire(physics.Vec{X: 20, Y: 10}, physics.Vec{X: 20, Y: 20}, 100)

	assert.True(t, first.Armed())
	assert.False(t, second.Armed())
}

func TestBulletLeavesTopEdge(t *testing.T) {
	b := NewBullet()
	b.Fire(physics.Vec{X: 50, Y: 5})
	b.Update(0.01)
	assert.True(t, b.Active(), "still within the margin")
	b.Update(0.1)
	assert.False(t, b.Active())
}

func TestBulletUpdateWhileInactiveIsNoop(t *testing.T) {
	b := NewBullet()
	b.Fire(physics.Vec{X: 10, Y: 10})
	b.Deactivate()
	b.Deactivate()
	b.Update(1)
	assert.False(t, b.Active())
	assert.Equal(t, physics.Vec{X: 10, Y: 10}, b.Position())
}

func TestDemonBulletAimsAtTarget(t *testing.T) {
	b := NewDemonBullet(DefaultScreen)
	b.Fire(physics.Vec{X: 0, Y: 0}, physics.Vec{X: 3, Y: 4}, 100)
	assert.InDelta(t, 60, b.Velocity().X, 1e-9)
	assert.InDelta(t, 80, b.Velocity().Y, 1e-9)
}

func TestDemonBulletDefaultsDownward(t *testing.T) {
	b := NewDemonBullet(DefaultScreen)
	origin := physics.Vec{X: 200, Y: 200}
	b.Fire(origin, origin, 170)
	assert.Equal(t, physics.Vec{X: 0, Y: 170}, b.Velocity())
	assert.True(t, b.Active())
}

func TestDemonBulletLeavesPlayfield(t *testing.T) {
	tests := []struct {
		name   string
		origin physics.Vec
		target physics.Vec
	}{
		{"bottom", physics.Vec{X: 400, Y: 605}, physics.Vec{X: 400, Y: 700}},
		{"left", physics.Vec{X: -5, Y: 300}, physics.Vec{X: -100, Y: 300}},
		{"right", physics.Vec{X: 805, Y: 300}, physics.Vec{X: 900, Y: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewDemonBullet(DefaultScreen)
			b.Fire(tt.origin, tt.target, 100)
			b.Update(0.1)
			assert.False(t, b.Active())
		})
	}
}

func TestDemonBulletStaysActiveAboveTop(t *testing.T) {
	b := NewDemonBullet(DefaultScreen)
	b.Fire(physics.Vec{X: 400, Y: 5}, physics.Vec{X: 400, Y: -100}, 100)
	b.Update(0.5)
	assert.True(t, b.Active(), "top edge is not an exit for demon bullets")
}

func TestBulletPoolAllocation(t *testing.T) {
	p := NewBulletPool(DemonBulletPoolSize, DefaultScreen)
	require.Len(t, p.Bullets(), DemonBulletPoolSize)

	for i := 0; i < DemonBulletPoolSize; i++ {
		b := p.Acquire()
		require.NotNil(t, b)
		assert.Same(t, p.Bullets()[i], b, "first inactive slot is handed out")
		b.Fire(physics.Vec{X: 400, Y: 100}, physics.Vec{X: 400, Y: 500}, 150)
	}
	assert.Nil(t, p.Acquire(), "exhausted pool drops the shot")
	assert.Equal(t, DemonBulletPoolSize, p.ActiveCount())

	p.Bullets()[3].Deactivate()
	assert.Same(t, p.Bullets()[3], p.Acquire())

	p.DeactivateAll()
	assert.Zero(t, p.ActiveCount())
}
