package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/gamestate"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/input"
	"github.com/tomz197/demonattack/internal/object"
	"github.com/tomz197/demonattack/internal/physics"
)

const frame = 1.0 / 60

type recordingSink struct {
	events []audio.Event
}

func (s *recordingSink) Play(e audio.Event) { s.events = append(s.events, e) }

func (s *recordingSink) count(e audio.Event) int {
	n := 0
	for _, got := range s.events {
		if got == e {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, cfg config.Config) (*Game, *recordingSink, *highscore.Store) {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := highscore.Open("", highscore.WithClock(func() time.Time { return now }))
	sink := &recordingSink{}
	return newGame(cfg, store, sink, rand.New(rand.NewSource(12345))), sink, store
}

func startedGame(t *testing.T) (*Game, *recordingSink, *highscore.Store) {
	t.Helper()
	g, sink, store := newTestGame(t, config.Default())
	g.Update(frame, input.Input{Space: true})
	require.Equal(t, gamestate.Playing, g.Mode())
	return g, sink, store
}

func TestTitleStartsGame(t *testing.T) {
	g, _, _ := newTestGame(t, config.Default())
	assert.Equal(t, gamestate.Title, g.Mode())

	g.Update(frame, input.Input{})
	assert.Equal(t, gamestate.Title, g.Mode())

	g.Update(frame, input.Input{Enter: true})
	assert.Equal(t, gamestate.Playing, g.Mode())
	assert.Equal(t, 1, g.Waves().CurrentWave())
	assert.Equal(t, 6, g.Waves().ActiveCount())
	assert.Equal(t, 3, g.State().Lives())
	assert.Equal(t, 0, g.State().Score())
	assert.False(t, g.Bullet().Active())
}

func TestFireOnlyWithIdleBullet(t *testing.T) {
	g, sink, _ := startedGame(t)

	g.Update(frame, input.Input{Fire: true})
	require.True(t, g.Bullet().Active())
	assert.Equal(t, 1, sink.count(audio.Shoot))
	first := g.Bullet().Position()

	g.Update(frame, input.Input{Fire: true})
	assert.Equal(t, 1, sink.count(audio.Shoot), "one bullet on screen at a time")
	assert.Less(t, g.Bullet().Position().Y, first.Y)
}

func TestPlayerMoves(t *testing.T) {
	g, _, _ := startedGame(t)
	start := g.Player().Position()
	g.Update(0.1, input.Input{Left: true})
	assert.InDelta(t, start.X-object.PlayerSpeed*0.1, g.Player().Position().X, 1e-9)
}

func TestBodyHitScoresAndSplits(t *testing.T) {
	g, sink, _ := startedGame(t)
	target := g.Waves().Demons()[2]

	fireAt(g, target.Position())
	g.resolveCollisions()

	assert.False(t, g.Bullet().Active())
	assert.False(t, target.Active())
	assert.Equal(t, object.DemonPoints[object.DemonLarge], g.State().Score())
	assert.Equal(t, 1, sink.count(audio.Explosion))
	assert.Equal(t, 7, g.Waves().ActiveCount(), "a large demon leaves two small ones")

	demons := g.Waves().Demons()
	small := demons[len(demons)-1]
	assert.Equal(t, object.DemonSmall, small.Size())

	fireAt(g, small.Position())
	g.resolveCollisions()
	assert.False(t, small.Active())
	assert.Equal(t, 6, g.Waves().ActiveCount(), "small demons do not split")
	assert.Equal(t, 30, g.State().Score())
}

func TestWingHitDisablesWingOnly(t *testing.T) {
	g, sink, _ := startedGame(t)
	target := g.Waves().Demons()[0]

	fireAt(g, target.WingBounds(object.PartLeftWing).Center())
	g.resolveCollisions()

	assert.False(t, g.Bullet().Active())
	assert.True(t, target.Active())
	assert.False(t, target.WingAlive(object.PartLeftWing))
	assert.True(t, target.WingAlive(object.PartRightWing))
	assert.Equal(t, 0, g.State().Score())
	assert.Equal(t, 0, sink.count(audio.Explosion))
}

func TestWingCombatDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.WingCombat = false
	g, _, _ := newTestGame(t, cfg)
	g.Update(frame, input.Input{Space: true})
	target := g.Waves().Demons()[0]

	fireAt(g, target.WingBounds(object.PartLeftWing).Center())
	g.resolveCollisions()

	assert.True(t, g.Bullet().Active(), "bullet passes through wings")
	assert.True(t, target.WingAlive(object.PartLeftWing))
}

// fireAt places an armed player bullet at pos, as if fired last frame.
func fireAt(g *Game, pos physics.Vec) {
	g.Bullet().Fire(pos)
	g.Bullet().Arm()
}

func TestBulletDoesNotHitInFrameItIsFired(t *testing.T) {
	g, sink, _ := startedGame(t)
	demons := g.Waves().Demons()
	for _, d := range demons[1:] {
		d.Destroy()
	}
	target := demons[0]
	target.Spawn(g.Player().Muzzle().Sub(physics.Vec{Y: 30}), object.DemonLarge, 0, 1)

	g.Update(frame, input.Input{Fire: true})
	require.True(t, g.Bullet().Active())
	assert.True(t, target.Active(), "fired this frame")
	assert.Equal(t, 0, g.State().Score())

	for i := 0; i < 4 && target.Active(); i++ {
		g.Update(frame, input.Input{})
	}
	assert.False(t, target.Active())
	assert.False(t, g.Bullet().Active())
	assert.Equal(t, object.DemonPoints[object.DemonLarge], g.State().Score())
	assert.Equal(t, 1, sink.count(audio.Explosion))
}

func TestDemonBulletDoesNotHitInFrameItIsFired(t *testing.T) {
	g, _, _ := startedGame(t)
	b := g.Waves().Bullets().Acquire()
	b.Fire(g.Player().Position(), g.Player().Position(), 0)

	g.resolveCollisions()
	assert.Equal(t, 3, g.State().Lives())
	assert.True(t, b.Active())

	g.Waves().Bullets().Arm()
	g.resolveCollisions()
	assert.Equal(t, 2, g.State().Lives())
}

func hitPlayerWithBullet(g *Game) {
	b := g.Waves().Bullets().Acquire()
	b.Fire(g.Player().Position(), g.Player().Position(), 0)
	b.Arm()
}

func TestDemonBulletCostsLife(t *testing.T) {
	g, sink, _ := startedGame(t)
	fireAt(g, physics.Vec{X: 10, Y: 300})
	hitPlayerWithBullet(g)

	g.resolveCollisions()

	assert.Equal(t, 2, g.State().Lives())
	assert.False(t, g.State().NoDamageThisWave())
	assert.True(t, g.Player().IsInvincible())
	assert.False(t, g.Bullet().Active(), "player bullet is cleared on respawn")
	assert.Equal(t, 0, g.Waves().Bullets().ActiveCount())
	assert.Equal(t, 1, sink.count(audio.PlayerHit))
	assert.Equal(t, 0, sink.count(audio.GameOver))

	hitPlayerWithBullet(g)
	g.resolveCollisions()
	assert.Equal(t, 2, g.State().Lives(), "invincible")
	assert.Equal(t, 1, g.Waves().Bullets().ActiveCount())
}

func TestLastLifeEndsGame(t *testing.T) {
	g, sink, _ := startedGame(t)
	g.State().LoseLife()
	g.State().LoseLife()
	require.Equal(t, 1, g.State().Lives())

	hitPlayerWithBullet(g)
	hitPlayerWithBullet(g)
	g.resolveCollisions()

	assert.Equal(t, gamestate.GameOver, g.Mode())
	assert.Equal(t, 0, g.State().Lives())
	assert.Equal(t, 1, sink.count(audio.PlayerHit))
	assert.Equal(t, 1, sink.count(audio.GameOver))
	assert.False(t, g.Player().IsInvincible())
}

func TestWaveTransition(t *testing.T) {
	g, sink, _ := startedGame(t)
	for _, d := range g.Waves().Demons() {
		d.Destroy()
	}
	g.Waves().Bullets().DeactivateAll()
	require.True(t, g.BetweenWaves())

	for i := 0; i < 3; i++ {
		g.Update(0.5, input.Input{})
		assert.Equal(t, 1, g.Waves().CurrentWave())
	}
	assert.Equal(t, 1, sink.count(audio.WaveComplete), "played once per clear")
	assert.Equal(t, 0, g.State().Score())

	g.Update(0.5, input.Input{})
	assert.Equal(t, 2, g.Waves().CurrentWave())
	assert.Equal(t, 100, g.State().Score(), "damage-free bonus for wave 1")
	assert.Equal(t, 7, len(g.Waves().Demons()))
	assert.False(t, g.BetweenWaves())
}

func TestWaveTransitionWithoutBonus(t *testing.T) {
	g, _, _ := startedGame(t)
	hitPlayerWithBullet(g)
	g.resolveCollisions()
	for _, d := range g.Waves().Demons() {
		d.Destroy()
	}
	g.Waves().Bullets().DeactivateAll()

	for i := 0; i < 4; i++ {
		g.Update(0.5, input.Input{})
	}
	assert.Equal(t, 2, g.Waves().CurrentWave())
	assert.Equal(t, 0, g.State().Score())
	assert.True(t, g.State().NoDamageThisWave())
}

func endGame(g *Game, score int) {
	g.State().AddScore(score)
	for g.State().Lives() > 0 {
		g.State().LoseLife()
	}
}

func TestGameOverToInitials(t *testing.T) {
	g, _, store := startedGame(t)
	endGame(g, 150)

	g.Update(0.1, input.Input{Enter: true})
	assert.Equal(t, gamestate.GameOver, g.Mode(), "keys ignored right after the game ends")
	assert.False(t, g.GameOverReady())

	g.Update(GameOverLockout, input.Input{})
	assert.True(t, g.GameOverReady())

	g.Update(frame, input.Input{Enter: true})
	require.Equal(t, gamestate.EnteringInitials, g.Mode())

	g.Update(frame, input.Input{Letters: []byte("BOB")})
	assert.Equal(t, "BOB", g.State().Initials())
	assert.Equal(t, 2, g.State().InitialsCursor())

	g.Update(frame, input.Input{Enter: true})
	assert.Equal(t, gamestate.Title, g.Mode())
	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, highscore.Entry{Score: 150, Initials: "BOB", Date: entries[0].Date}, entries[0])
}

func TestGameOverWithoutHighScore(t *testing.T) {
	g, _, _ := startedGame(t)
	endGame(g, 0)
	g.Update(GameOverLockout, input.Input{})

	g.Update(frame, input.Input{Enter: true})
	assert.Equal(t, gamestate.Playing, g.Mode(), "enter restarts")
	assert.Equal(t, 3, g.State().Lives())

	endGame(g, 0)
	g.Update(GameOverLockout, input.Input{})
	g.Update(frame, input.Input{Space: true})
	assert.Equal(t, gamestate.Title, g.Mode(), "space goes back to the title")
}

func TestInitialsEditing(t *testing.T) {
	g, _, store := startedGame(t)
	endGame(g, 90)
	g.Update(GameOverLockout, input.Input{})
	g.Update(frame, input.Input{Space: true})
	require.Equal(t, gamestate.EnteringInitials, g.Mode())

	g.Update(frame, input.Input{Letters: []byte("XY")})
	assert.Equal(t, "XYA", g.State().Initials())

	g.Update(frame, input.Input{Backspace: true})
	assert.Equal(t, "XAA", g.State().Initials())
	assert.Equal(t, 1, g.State().InitialsCursor())

	g.Update(frame, input.Input{Up: true})
	assert.Equal(t, "XBA", g.State().Initials())
	g.Update(frame, input.Input{Down: true})
	g.Update(frame, input.Input{Down: true})
	assert.Equal(t, "XZA", g.State().Initials())

	g.Update(frame, input.Input{LeftKey: true})
	assert.Equal(t, 0, g.State().InitialsCursor())
	g.Update(frame, input.Input{RightKey: true})
	assert.Equal(t, 1, g.State().InitialsCursor())

	g.Update(frame, input.Input{Space: true})
	assert.Equal(t, gamestate.Playing, g.Mode(), "space saves and plays again")
	assert.Equal(t, "XZA", store.Entries()[0].Initials)
	assert.Equal(t, 90, g.State().HighScore())
}

func TestSameSeedSameGame(t *testing.T) {
	run := func() []physics.Vec {
		g, _, _ := startedGame(t)
		for i := 0; i < 300; i++ {
			g.Update(frame, input.Input{Right: i%40 < 20, Fire: i%15 == 0})
		}
		var out []physics.Vec
		for _, d := range g.Waves().Demons() {
			out = append(out, d.Position())
		}
		for _, b := range g.Waves().Bullets().Bullets() {
			out = append(out, b.Position())
		}
		return out
	}
	assert.Equal(t, run(), run())
}
