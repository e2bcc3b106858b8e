package collision

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/demonattack/internal/object"
	"github.com/tomz197/demonattack/internal/physics"
)

func demonAt(x, y float64, size object.DemonSize) *object.Demon {
	d := object.NewDemon(object.DefaultScreen, object.Appearance{}, rand.New(rand.NewSource(7)))
	d.Spawn(physics.Vec{X: x, Y: y}, size, 50, 1)
	return d
}

func bulletAt(x, y float64) *object.Bullet {
	b := object.NewBullet()
	b.Fire(physics.Vec{X: x, Y: y})
	b.Arm()
	return b
}

func TestBulletVsDemonsInactiveBullet(t *testing.T) {
	b := bulletAt(400, 100)
	b.Deactivate()
	_, ok := BulletVsDemons(b, []*object.Demon{demonAt(400, 100, object.DemonLarge)}, true)
	assert.False(t, ok)
}

func TestBulletVsDemonsFirstInOrder(t *testing.T) {
	first := demonAt(400, 100, object.DemonLarge)
	second := demonAt(405, 100, object.DemonLarge)

	hit, ok := BulletVsDemons(bulletAt(402, 100), []*object.Demon{first, second}, false)
	require.True(t, ok)
	assert.Same(t, first, hit.Demon)
	assert.Equal(t, object.PartBody, hit.Part)
	assert.True(t, hit.Kill())
}

func TestBulletVsDemonsSkipsInactive(t *testing.T) {
	dead := demonAt(400, 100, object.DemonLarge)
	dead.Destroy()
	alive := demonAt(405, 100, object.DemonLarge)

	hit, ok := BulletVsDemons(bulletAt(402, 100), []*object.Demon{dead, alive}, false)
	require.True(t, ok)
	assert.Same(t, alive, hit.Demon)
}

func TestBulletVsDemonsMiss(t *testing.T) {
	_, ok := BulletVsDemons(bulletAt(100, 400), []*object.Demon{demonAt(400, 100, object.DemonLarge)}, true)
	assert.False(t, ok)
}

func TestBulletVsDemonsWings(t *testing.T) {
	d := demonAt(400, 100, object.DemonLarge)
	demons := []*object.Demon{d}

	// Left wing spans x 366..388, the body 380..420; x=370 touches only the wing.
	b := bulletAt(370, 94)

	_, ok := BulletVsDemons(b, demons, false)
	assert.False(t, ok, "wings are ignored when wing combat is off")

	hit, ok := BulletVsDemons(b, demons, true)
	require.True(t, ok)
	assert.Equal(t, object.PartLeftWing, hit.Part)
	assert.False(t, hit.Kill())

	d.DisableWing(object.PartLeftWing)
	_, ok = BulletVsDemons(b, demons, true)
	assert.False(t, ok, "a lost wing no longer blocks shots")

	hit, ok = BulletVsDemons(bulletAt(430, 94), demons, true)
	require.True(t, ok)
	assert.Equal(t, object.PartRightWing, hit.Part)
}

func TestBodyCheckedBeforeWings(t *testing.T) {
	d := demonAt(400, 100, object.DemonLarge)
	// x=384 overlaps both the body and the left wing.
	hit, ok := BulletVsDemons(bulletAt(384, 94), []*object.Demon{d}, true)
	require.True(t, ok)
	assert.Equal(t, object.PartBody, hit.Part)
}

func TestDemonBulletsVsPlayer(t *testing.T) {
	p := object.NewPlayer(object.DefaultScreen)
	pool := object.NewBulletPool(3, object.DefaultScreen)
	bullets := pool.Bullets()
	bullets[1].Fire(p.Position(), p.Position().Add(physics.Vec{Y: 1}), 0)
	pool.Arm()

	assert.Same(t, bullets[1], DemonBulletsVsPlayer(bullets, p))

	bullets[1].Deactivate()
	assert.Nil(t, DemonBulletsVsPlayer(bullets, p))
}

func TestInvincibilitySuppressesHits(t *testing.T) {
	p := object.NewPlayer(object.DefaultScreen)
	pool := object.NewBulletPool(1, object.DefaultScreen)
	pool.Bullets()[0].Fire(p.Position(), p.Position(), 0)
	pool.Arm()
	demons := []*object.Demon{demonAt(p.Position().X, p.Position().Y, object.DemonLarge)}

	p.TriggerInvincibility()
	for i := 0; i < 3; i++ {
		assert.Nil(t, DemonBulletsVsPlayer(pool.Bullets(), p))
		assert.Nil(t, DemonsVsPlayer(demons, p))
		p.Update(0.5, 0)
	}
	require.True(t, p.IsInvincible(), "0.5s left")

	p.Update(0.5, 0)
	require.False(t, p.IsInvincible())
	assert.NotNil(t, DemonBulletsVsPlayer(pool.Bullets(), p))
	assert.NotNil(t, DemonsVsPlayer(demons, p))
}

func TestDemonsVsPlayer(t *testing.T) {
	p := object.NewPlayer(object.DefaultScreen)
	far := demonAt(100, 100, object.DemonLarge)
	near := demonAt(410, 540, object.DemonSmall)

	assert.Same(t, near, DemonsVsPlayer([]*object.Demon{far, near}, p))

	near.Destroy()
	assert.Nil(t, DemonsVsPlayer([]*object.Demon{far, near}, p))
}
